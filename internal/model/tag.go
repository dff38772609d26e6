package model

// Tag names live in two scopes: system tags (UserID nil) are visible to
// everyone, custom tags belong to the user who created them. A name may
// exist once per scope.
type Tag struct {
	ID     int64  `db:"id"`
	Name   string `db:"name"`
	UserID *int64 `db:"user_id"`
}

const (
	TagScopeSystem = "system"
	TagScopeCustom = "custom"
)

func (t *Tag) Scope() string {
	if t.UserID == nil {
		return TagScopeSystem
	}
	return TagScopeCustom
}

// TagUsage is a tag with its public usage count, for the popular-tags list.
type TagUsage struct {
	ID         int64  `db:"id" json:"id"`
	Name       string `db:"name" json:"name"`
	UsageCount int    `db:"usage_count" json:"usageCount"`
}
