package domain

import (
	"time"
)

// EvidenceFile records one uploaded compliance document. The row is written
// after the blob upload finishes, or with a pending placeholder URL when the
// storage backend was unreachable.
type EvidenceFile struct {
	ID               int       `gorm:"primaryKey;autoIncrement" json:"id"`
	ComponentID      int       `gorm:"column:component_id;index" json:"component_id"`
	EvidenceFileName string    `gorm:"column:evidence_file_name" json:"evidence_file_name"`
	EvidenceFileURL  string    `gorm:"column:evidence_file_url" json:"evidence_file_url"`
	Category         string    `gorm:"column:category;index" json:"category"`
	CreatedBy        string    `gorm:"column:created_by" json:"created_by"`
	CreatedDate      time.Time `gorm:"column:created_date;autoCreateTime" json:"created_date"`
}

func (EvidenceFile) TableName() string { return "sdp_evidence" }
