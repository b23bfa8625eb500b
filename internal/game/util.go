package game

import (
	"encoding/json"
	"time"
)

func decode(raw []byte, out any) error {
	return json.Unmarshal(raw, out)
}

func nowMilli() int64 {
	return time.Now().UnixMilli()
}
