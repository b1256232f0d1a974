package model

// Task represents a single item on a user's task list.
//
// A task id is unique only within its owner's collection: it is the size of
// that collection at creation time, and ids are not renumbered on delete.
// The task itself carries no owner field; ownership is determined entirely
// by which per-user collection it lives in.
//
// Deadline is the RFC 3339 text form of the due time. It is stored and
// served exactly as the client sent it, so a create/list round trip never
// reformats the value.
type Task struct {
	ID          uint32 `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Deadline    string `json:"deadline"`
	Completed   bool   `json:"completed"`
}
