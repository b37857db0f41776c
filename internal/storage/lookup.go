package storage

import (
	"strings"

	"github.com/dgraph-io/ristretto"
)

// Lookup resolver: maps external enum-like tags onto the integer codes of
// the persisted reference tables. Every category has a default name and a
// hard fallback code, so resolution never fails and never blocks the hot
// ingestion path — unknown tags and database faults both degrade to the
// category default.

type lookupCategory struct {
	table       string
	nameColumn  string
	codeColumn  string
	defaultName string
	fallback    int
}

var (
	chatTypeCategory = lookupCategory{
		table:       "chat_types",
		nameColumn:  "type_name",
		codeColumn:  "type_id",
		defaultName: "private",
		fallback:    1,
	}
	roleCategory = lookupCategory{
		table:       "chat_roles",
		nameColumn:  "role_name",
		codeColumn:  "role_id",
		defaultName: "member",
		fallback:    3,
	}
	attachmentCategory = lookupCategory{
		table:       "attachment_types",
		nameColumn:  "type_name",
		codeColumn:  "type_id",
		defaultName: "other",
		fallback:    5,
	}
)

// Upstream tag vocabularies, translated to reference table names.
var (
	chatTypeNames = map[string]string{
		"chatTypePrivate":    "private",
		"chatTypeSecret":     "private",
		"chatTypeBasicGroup": "group",
		"chatTypeSupergroup": "supergroup",
		"chatTypeChannel":    "channel",
	}
	roleNames = map[string]string{
		"chatMemberStatusCreator":       "creator",
		"chatMemberStatusAdministrator": "administrator",
		"chatMemberStatusMember":        "member",
		"chatMemberStatusRestricted":    "restricted",
		"chatMemberStatusLeft":          "left",
		"chatMemberStatusBanned":        "banned",
	}
)

func newCodeCache() (*ristretto.Cache, error) {
	const (
		numCounters = 1 << 12
		maxCost     = 1 << 16
		bufferItems = 64
	)

	return ristretto.NewCache(&ristretto.Config{
		NumCounters: numCounters,
		MaxCost:     maxCost,
		BufferItems: bufferItems,
	})
}

// ChatTypeCode resolves an upstream chat type tag to its code.
func (s *Storage) ChatTypeCode(tag string) int {
	name, ok := chatTypeNames[tag]
	if !ok {
		name = chatTypeCategory.defaultName
	}
	return s.lookupCode(chatTypeCategory, name)
}

// RoleCode resolves an upstream member status tag to its code.
func (s *Storage) RoleCode(tag string) int {
	name, ok := roleNames[tag]
	if !ok {
		name = roleCategory.defaultName
	}
	return s.lookupCode(roleCategory, name)
}

// AttachmentTypeCode resolves an attachment type tag to its code.
func (s *Storage) AttachmentTypeCode(tag string) int {
	name := strings.ToLower(tag)
	if name == "" {
		name = attachmentCategory.defaultName
	}
	return s.lookupCode(attachmentCategory, name)
}

func (s *Storage) lookupCode(category lookupCategory, name string) int {
	cacheKey := category.table + ":" + name
	if cached, ok := s.codes.Get(cacheKey); ok {
		if code, ok := cached.(int); ok {
			return code
		}
	}

	var code int
	err := s.db.Table(category.table).
		Select(category.codeColumn).
		Where(category.nameColumn+" = ?", name).
		Limit(1).
		Scan(&code).Error
	if err != nil || code == 0 {
		if name == category.defaultName {
			return category.fallback
		}
		return s.lookupCode(category, category.defaultName)
	}

	s.codes.Set(cacheKey, code, 1)

	return code
}
