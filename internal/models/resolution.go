package models

// ResolutionState — состояние разрешения поста по slug.
type ResolutionState int

const (
	// StatePending — пост ещё не собран, показываем fallback.
	StatePending ResolutionState = iota
	// StateResolved — пост найден.
	StateResolved
	// StateNotFound — в CMS нет документа с таким slug.
	StateNotFound
	// StateFailed — фоновое разрешение завершилось ошибкой.
	StateFailed
)

func (s ResolutionState) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateResolved:
		return "resolved"
	case StateNotFound:
		return "not_found"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Resolution — результат Service.ResolvePost.
// Post заполнен только в StateResolved, Err — только в StateFailed.
type Resolution struct {
	State ResolutionState
	Post  *Post
	Err   error
}
