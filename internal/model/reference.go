package model

// Reference tables mapping a name to a stable integer code. Read-only at
// runtime, seeded during migration.

type ChatType struct {
	ID   int    `gorm:"primaryKey;column:type_id" json:"id"`
	Name string `gorm:"uniqueIndex;column:type_name" json:"name"`
}

// TableName - set the table name.
func (ChatType) TableName() string {
	return "chat_types"
}

type ChatRole struct {
	ID   int    `gorm:"primaryKey;column:role_id" json:"id"`
	Name string `gorm:"uniqueIndex;column:role_name" json:"name"`
}

// TableName - set the table name.
func (ChatRole) TableName() string {
	return "chat_roles"
}

type AttachmentType struct {
	ID   int    `gorm:"primaryKey;column:type_id" json:"id"`
	Name string `gorm:"uniqueIndex;column:type_name" json:"name"`
}

// TableName - set the table name.
func (AttachmentType) TableName() string {
	return "attachment_types"
}
