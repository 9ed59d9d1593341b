package game

import (
	"encoding/json"

	"github.com/google/uuid"
)

// ShortID 生成 8 位短 ID，会话和主持端连接都用它，
// 足够在一张桌子的规模下不撞车，又方便口头报出来
func ShortID() string {
	id, err := uuid.NewV7()
	if err != nil {
		panic("Failed to generate UUID: " + err.Error())
	}

	s := id.String()
	return s[len(s)-8:]
}

func mustMarshal(v any) json.RawMessage {
	data, err := json.Marshal(v)
	if err != nil {
		panic("Failed to marshal: " + err.Error())
	}

	return data
}
