package models

// Record is implemented by the owned collections (detections and claims).
type Record interface {
	RecordID() string
	SetRecordID(id string)
	OwnerID() string
	SetOwnerID(userID string)
	// Validate checks required fields and list caps before anything is persisted.
	Validate() error
}
