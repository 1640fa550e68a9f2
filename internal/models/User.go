package models

// User is one directory under the dataset's data/ root. The directory
// name is the primary key. HasLabels mirrors membership in the
// labeled_ids.txt manifest, not the presence of a labels.txt file.
type User struct {
	ID        string `json:"id" gorm:"primaryKey;size:64"`
	HasLabels bool   `json:"has_labels" gorm:"not null"`

	Activities []Activity `json:"activities,omitempty" gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}
