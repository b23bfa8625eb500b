package auth

import (
	"testing"

	"github.com/google/uuid"

	"github.com/Subas2/SIANG-TAMBOLA/internal/models"
)

func TestJWTRoundtrip(t *testing.T) {
	Init()

	userID := uuid.New()
	token, err := CreateJWT(userID, models.RoleAgent)
	if err != nil {
		t.Fatalf("failed to create jwt: %v", err)
	}

	session, err := AuthenticateJWT(token)
	if err != nil {
		t.Fatalf("failed to authenticate jwt: %v", err)
	}
	if session.UserID != userID {
		t.Fatalf("expected user %v, got %v", userID, session.UserID)
	}
	if session.Role != models.RoleAgent {
		t.Fatalf("expected role agent, got %v", session.Role)
	}

	if _, err := AuthenticateJWT("not-a-token"); err == nil {
		t.Fatal("expected garbage token to be rejected")
	}
}

func TestSessionRequire(t *testing.T) {
	admin := Session{UserID: uuid.New(), Role: models.RoleAdmin}
	agent := Session{UserID: uuid.New(), Role: models.RoleAgent}
	player := Session{UserID: uuid.New(), Role: models.RolePlayer}

	if err := admin.Require(models.RoleAgent); err != nil {
		t.Fatalf("admin should pass any gate: %v", err)
	}
	if err := agent.Require(models.RoleAgent); err != nil {
		t.Fatalf("agent should pass the agent gate: %v", err)
	}
	if err := player.Require(models.RoleAdmin); err == nil {
		t.Fatal("player must not pass the admin gate")
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("hunter42")
	if err != nil {
		t.Fatalf("failed to hash: %v", err)
	}
	ok, err := VerifyPassword("hunter42", hash)
	if err != nil || !ok {
		t.Fatalf("expected match, got ok=%v err=%v", ok, err)
	}
	ok, err = VerifyPassword("wrong", hash)
	if err != nil {
		t.Fatalf("verify returned error: %v", err)
	}
	if ok {
		t.Fatal("wrong password must not verify")
	}
}

func TestHashParamsParallelism(t *testing.T) {
	// argon2.IDKey panics on zero threads, so the derived value must never
	// bottom out on single-CPU hosts.
	if defaultHashParams.parallelism < 1 {
		t.Fatalf("parallelism must be at least 1, got %d", defaultHashParams.parallelism)
	}
}
