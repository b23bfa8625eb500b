package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// TicketRows and TicketCols fix the standard tambola grid shape.
const (
	TicketRows = 3
	TicketCols = 9
)

// NumbersPerRow and NumbersPerTicket fix how many cells are filled.
const (
	NumbersPerRow    = 5
	NumbersPerTicket = 15
)

// Grid is a 3x9 tambola grid. Zero means blank.
type Grid [TicketRows][TicketCols]int

// Ticket binds one grid to one (game, user, seat) and is immutable once issued.
type Ticket struct {
	ID          uuid.UUID `json:"id"`
	GameID      uuid.UUID `json:"gameId"`
	UserID      uuid.UUID `json:"uid"`
	SeatID      string    `json:"seatId"`
	Grid        Grid      `json:"grid"`
	PurchasedAt int64     `json:"purchasedAt"`
}

// NewTicket issues a ticket for a sold seat.
func NewTicket(gameID, userID uuid.UUID, seatID string, grid Grid) (*Ticket, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate ticket id: %w", err)
	}
	return &Ticket{
		ID:          id,
		GameID:      gameID,
		UserID:      userID,
		SeatID:      seatID,
		Grid:        grid,
		PurchasedAt: time.Now().UnixMilli(),
	}, nil
}

// Numbers returns the grid's non-blank values in row-major order.
func (g Grid) Numbers() []int {
	nums := make([]int, 0, NumbersPerTicket)
	for r := 0; r < TicketRows; r++ {
		for c := 0; c < TicketCols; c++ {
			if g[r][c] != 0 {
				nums = append(nums, g[r][c])
			}
		}
	}
	return nums
}

// Row returns the non-blank values of one row in column order.
func (g Grid) Row(r int) []int {
	nums := make([]int, 0, NumbersPerRow)
	for c := 0; c < TicketCols; c++ {
		if g[r][c] != 0 {
			nums = append(nums, g[r][c])
		}
	}
	return nums
}

// ColumnRange gives the inclusive numeric bounds for a column: col0 holds 1-9,
// col1 10-19, ... col8 80-90.
func ColumnRange(col int) (lo, hi int) {
	if col == 0 {
		return 1, 9
	}
	if col == TicketCols-1 {
		return col * 10, col*10 + 10
	}
	return col * 10, col*10 + 9
}
