package repository

import (
	"strings"

	"github.com/deppfellow/taskmanagement/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const taskColumns = `id, title, description, status, user_id, created_at, updated_at`

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes s match literally inside a LIKE pattern.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// buildListQuery renders the task listing for one owner. The owner
// predicate is always present and always first; the filter can only
// narrow it.
func buildListQuery(userID uuid.UUID, filter model.TaskFilter) (string, pgx.NamedArgs) {
	var sb strings.Builder
	args := pgx.NamedArgs{"user_id": userID}

	sb.WriteString(`SELECT ` + taskColumns + ` FROM tasks WHERE user_id = @user_id`)

	if filter.Status != nil {
		sb.WriteString(` AND status = @status`)
		args["status"] = string(*filter.Status)
	}

	if filter.Search != "" {
		sb.WriteString(` AND (title ILIKE @search OR description ILIKE @search)`)
		args["search"] = "%" + escapeLike(filter.Search) + "%"
	}

	sb.WriteString(` ORDER BY created_at, id`)

	return sb.String(), args
}
