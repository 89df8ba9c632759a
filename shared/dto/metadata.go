package dto

import (
	"rental/shared/constant"
	"rental/shared/model"
	"rental/shared/timezone"
)

// Metadata is the audit stamp rendered on every resource, timestamps in the app zone.
type Metadata struct {
	CreatedAt  string `json:"created_at"`
	CreatedBy  string `json:"created_by"`
	ModifiedAt string `json:"modified_at"`
	ModifiedBy string `json:"modified_by"`
}

func MetadataFrom(stamp model.Metadata) Metadata {
	return Metadata{
		CreatedAt:  timezone.Format(stamp.CreatedAt, constant.DateFormat),
		CreatedBy:  stamp.CreatedBy,
		ModifiedAt: timezone.Format(stamp.ModifiedAt, constant.DateFormat),
		ModifiedBy: stamp.ModifiedBy,
	}
}
