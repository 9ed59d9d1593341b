package game

import (
	"fmt"
	"strings"
)

// 名单中存在（忽略大小写的）重复名字
type DuplicateNameError struct {
	Names []string
}

func (e *DuplicateNameError) Error() string {
	return "名单中存在重复的名字: " + strings.Join(e.Names, ", ")
}

// 有效玩家数不在 13 到 15 之间
type PlayerCountError struct {
	Count int
}

func (e *PlayerCountError) Error() string {
	return fmt.Sprintf("需要 %d-%d 名玩家，实际有 %d 名", MIN_PLAYERS, MAX_PLAYERS, e.Count)
}

// 违反了对局的结构约束（身份配额、座位布局等）。
// 正常流程下这种错误应当被构造方式挡住，出现即为调用方的 bug
type ConstraintViolationError struct {
	Reason string
}

func (e *ConstraintViolationError) Error() string {
	return e.Reason
}
