// Package queue defines message payloads exchanged over the broker and the
// background consumer that processes them.
package queue

// EnrollmentCreatedEvent is published when a student is enrolled in a
// course. It carries enough context for downstream consumers (audit log,
// notifications) without querying the primary database.
type EnrollmentCreatedEvent struct {
	EnrollmentID uint64 `json:"enrollment_id"`
	ProfileID    uint64 `json:"profile_id"`
	MatricNo     string `json:"matric_no"`
	CourseID     uint64 `json:"course_id"`
	CourseCode   string `json:"course_code"`
	CourseTitle  string `json:"course_title"`
	EnrolledAt   string `json:"enrolled_at"`
}
