package models

// AWSSettings is read and replaced wholesale through /api/settings/aws.
type AWSSettings struct {
	Enabled      bool   `json:"enabled"`
	Region       string `json:"region"`
	AccessKey    string `json:"access_key"`
	SecretKey    string `json:"secret_key"`
	SyncInterval int    `json:"sync_interval,omitempty" validate:"gte=0"`
}

// RetentionSettings controls event log cleanup. Zero days means keep forever.
type RetentionSettings struct {
	RetentionDays int  `json:"retention_days" validate:"gte=0"`
	Enabled       bool `json:"enabled"`
}

type TimezoneSettings struct {
	Timezone string `json:"timezone"`
}
