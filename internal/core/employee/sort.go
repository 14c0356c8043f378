package employee

import "strings"

// SortField は一覧の並び替え対象です。
type SortField string

const (
	SortByID        SortField = "id"
	SortByName      SortField = "name"
	SortByPosition  SortField = "position"
	SortBySalary    SortField = "salary"
	SortByCreatedAt SortField = "created_at"
	SortByUpdatedAt SortField = "updated_at"
)

// SortOrder は並び順です。
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

const (
	DefaultSortField = SortByName
	DefaultSortOrder = SortAsc
)

var sortFieldAliases = map[string]SortField{
	"id":         SortByID,
	"name":       SortByName,
	"nama":       SortByName,
	"position":   SortByPosition,
	"jabatan":    SortByPosition,
	"salary":     SortBySalary,
	"gaji":       SortBySalary,
	"created_at": SortByCreatedAt,
	"updated_at": SortByUpdatedAt,
}

// ParseSortField は外部から渡された並び替え項目を解釈します。空文字は既定値になります。
func ParseSortField(raw string) (SortField, error) {
	key := strings.ToLower(strings.TrimSpace(raw))
	if key == "" {
		return DefaultSortField, nil
	}
	field, ok := sortFieldAliases[key]
	if !ok {
		return "", ErrInvalidSortField
	}
	return field, nil
}

// ParseSortOrder は並び順を解釈します。空文字は既定値になります。
func ParseSortOrder(raw string) (SortOrder, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return DefaultSortOrder, nil
	case string(SortAsc):
		return SortAsc, nil
	case string(SortDesc):
		return SortDesc, nil
	default:
		return "", ErrInvalidSortOrder
	}
}

// Valid は既知の並び替え項目かを返します。
func (f SortField) Valid() bool {
	switch f {
	case SortByID, SortByName, SortByPosition, SortBySalary, SortByCreatedAt, SortByUpdatedAt:
		return true
	default:
		return false
	}
}

// Valid は既知の並び順かを返します。
func (o SortOrder) Valid() bool {
	return o == SortAsc || o == SortDesc
}

// Toggle は逆順を返します。
func (o SortOrder) Toggle() SortOrder {
	if o == SortAsc {
		return SortDesc
	}
	return SortAsc
}
