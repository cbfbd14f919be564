package repository

import (
	"strings"
	"testing"

	"github.com/deppfellow/taskmanagement/internal/model"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestBuildListQuery_OwnerScopeOnly(t *testing.T) {
	userID := uuid.New()

	query, args := buildListQuery(userID, model.TaskFilter{})

	assert.Contains(t, query, "WHERE user_id = @user_id ORDER BY created_at, id")
	assert.NotContains(t, query, "@status")
	assert.NotContains(t, query, "@search")
	assert.Equal(t, userID, args["user_id"])
	assert.Len(t, args, 1)
}

func TestBuildListQuery_OwnerPredicateComesFirst(t *testing.T) {
	status := model.TaskStatusDone

	query, args := buildListQuery(uuid.New(), model.TaskFilter{Status: &status, Search: "milk"})

	where := query[strings.Index(query, "WHERE"):]
	assert.True(t, strings.HasPrefix(where, "WHERE user_id = @user_id AND "), where)
	assert.Less(t, strings.Index(query, "@status"), strings.Index(query, "@search"))
	assert.Equal(t, "DONE", args["status"])
	assert.Equal(t, "%milk%", args["search"])
}

func TestBuildListQuery_SearchMatchesTitleOrDescription(t *testing.T) {
	query, _ := buildListQuery(uuid.New(), model.TaskFilter{Search: "milk"})

	assert.Contains(t, query, "(title ILIKE @search OR description ILIKE @search)")
}

func TestBuildListQuery_EmptySearchIsIgnored(t *testing.T) {
	query, args := buildListQuery(uuid.New(), model.TaskFilter{Search: ""})

	assert.NotContains(t, query, "ILIKE")
	assert.NotContains(t, args, "search")
}

func TestEscapeLike(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"milk", "milk"},
		{"100%", `100\%`},
		{"snake_case", `snake\_case`},
		{`C:\tmp`, `C:\\tmp`},
		{`%_\`, `\%\_\\`},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, escapeLike(tt.in), tt.in)
	}
}
