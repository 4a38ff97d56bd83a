// Package queue defines message payloads exchanged over the message broker.
package queue

// SeatAssignedEvent is published every time a seat assignment is
// committed, whether it came from an interactive draw, a batch run or a
// fixed pre-assignment.  It carries enough information for downstream
// consumers to log or notify without querying the primary database.
type SeatAssignedEvent struct {
    ClassroomID   uint64 `json:"classroom_id"`
    ClassroomName string `json:"classroom_name"`
    StudentID     uint64 `json:"student_id"`
    StudentNumber string `json:"student_number"`
    StudentName   string `json:"student_name"`
    SeatID        string `json:"seat_id"`
    Row           int    `json:"row"`
    Col           int    `json:"col"`
    Method        string `json:"method"` // DRAW | BATCH | FIXED
    AssignedAt    string `json:"assigned_at"`
}
