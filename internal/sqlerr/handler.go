package sqlerr

import (
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/deppfellow/taskmanagement/internal/database"
	"github.com/deppfellow/taskmanagement/internal/errs"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// entityNames maps the tables of the registered entities to their names.
var entityNames = map[string]string{
	database.TaskEntity.Table: database.TaskEntity.Name,
	database.UserEntity.Table: database.UserEntity.Name,
}

// referenceColumns maps foreign key columns to the entity they point at.
var referenceColumns = map[string]string{
	"user_id": database.UserEntity.Name,
}

// columnLabels names columns the way API clients know them.
var columnLabels = map[string]string{
	"external_id": "account",
	"user_id":     "owner",
	"email":       "email address",
}

// uniqueKeyPattern matches "<table>_<column>_key" and "<table>_<column>_ukey".
var uniqueKeyPattern = regexp.MustCompile(`_([^_]+)_(?:key|ukey)$`)

// ErrCode reports the Code of err, or Other when err is not an *Error.
func ErrCode(err error) Code {
	var pgerr *Error
	if errors.As(err, &pgerr) {
		return pgerr.Code
	}
	return Other
}

// ConvertPgError classifies a raw pgconn error.
func ConvertPgError(src *pgconn.PgError) *Error {
	return &Error{
		Code:           MapCode(src.Code),
		Severity:       MapSeverity(src.Severity),
		DatabaseCode:   src.Code,
		Message:        src.Message,
		SchemaName:     src.SchemaName,
		TableName:      src.TableName,
		ColumnName:     src.ColumnName,
		DataTypeName:   src.DataTypeName,
		ConstraintName: src.ConstraintName,
		driverErr:      src,
	}
}

// generateErrorCode builds "<DOMAIN>_<ACTION>" codes such as TASK_INVALID.
// A foreign key violation is reported against the referenced entity, so a
// task pointing at a missing owner yields USER_NOT_FOUND.
func generateErrorCode(tableName, columnName string, errType Code) string {
	if tableName == "" {
		tableName = "RECORD"
	}

	domain := strings.ToUpper(tableName)
	if ref, ok := referenceColumns[strings.ToLower(columnName)]; ok && errType == ForeignKeyViolation {
		domain = strings.ToUpper(ref)
	} else if name, ok := entityNames[tableName]; ok {
		domain = strings.ToUpper(name)
	} else if strings.HasSuffix(domain, "S") && len(domain) > 1 {
		domain = domain[:len(domain)-1]
	}

	action := "ERROR"
	switch errType {
	case ForeignKeyViolation:
		action = "NOT_FOUND"
	case UniqueViolation:
		action = "ALREADY_EXISTS"
	case NotNullViolation:
		action = "REQUIRED"
	case CheckViolation, InvalidText:
		action = "INVALID"
	}

	return fmt.Sprintf("%s_%s", domain, action)
}

func formatUserFriendlyMessage(sqlErr *Error) string {
	entityName := getEntityName(sqlErr.TableName, sqlErr.ColumnName)

	switch sqlErr.Code {
	case ForeignKeyViolation:
		return fmt.Sprintf("The referenced %s does not exist", entityName)

	case UniqueViolation:
		// "identifier" is replaced by the column name when it can be inferred.
		return fmt.Sprintf("A %s with this identifier already exists", entityName)

	case NotNullViolation:
		fieldName := columnLabel(sqlErr.ColumnName)
		if fieldName == "" {
			fieldName = "field"
		}
		return fmt.Sprintf("The %s is required", fieldName)

	case CheckViolation:
		fieldName := columnLabel(sqlErr.ColumnName)
		if fieldName != "" {
			return fmt.Sprintf("The %s value does not meet required conditions", fieldName)
		}
		return "One or more values do not meet required conditions"

	case InvalidText:
		return "One or more values have an invalid format"

	default:
		return "An error occurred while processing your request"
	}
}

// getEntityName prefers a known reference column, then a registered table,
// then falls back to a "<entity>_id" column or the singular table name.
func getEntityName(tableName, columnName string) string {
	if name, ok := referenceColumns[strings.ToLower(columnName)]; ok {
		return name
	}
	if name, ok := entityNames[tableName]; ok {
		return name
	}

	if columnName != "" && strings.HasSuffix(strings.ToLower(columnName), "_id") {
		entity := strings.TrimSuffix(strings.ToLower(columnName), "_id")
		return humanizeText(entity)
	}

	if tableName != "" {
		entity := tableName
		if strings.HasSuffix(entity, "s") && len(entity) > 1 {
			entity = entity[:len(entity)-1]
		}
		return humanizeText(entity)
	}

	return "record"
}

// columnLabel returns the client-facing name of column.
func columnLabel(column string) string {
	if label, ok := columnLabels[strings.ToLower(column)]; ok {
		return label
	}
	return humanizeText(column)
}

// humanizeText converts "external_id" into "External Id".
func humanizeText(text string) string {
	if text == "" {
		return ""
	}
	return cases.Title(language.English).String(strings.ReplaceAll(text, "_", " "))
}

// extractColumnForUniqueViolation infers the column from a constraint named
// "<table>_<column>_key", "unique_<table>_<column>" or, for other tables,
// the last word before "_key".
func extractColumnForUniqueViolation(tableName, constraintName string) string {
	if constraintName == "" {
		return ""
	}

	if column := constraintColumn(tableName, constraintName, "_key", "_ukey"); column != "" {
		return column
	}

	if strings.HasPrefix(constraintName, "unique_") {
		parts := strings.Split(constraintName, "_")
		if len(parts) >= 3 {
			return parts[len(parts)-1]
		}
	}

	matches := uniqueKeyPattern.FindStringSubmatch(constraintName)
	if len(matches) > 1 {
		return matches[1]
	}

	return ""
}

// constraintColumn extracts <column> from "<table>_<column><suffix>".
func constraintColumn(tableName, constraintName string, suffixes ...string) string {
	if tableName == "" || !strings.HasPrefix(constraintName, tableName+"_") {
		return ""
	}

	column := strings.TrimPrefix(constraintName, tableName+"_")
	for _, suffix := range suffixes {
		if strings.HasSuffix(column, suffix) {
			return strings.TrimSuffix(column, suffix)
		}
	}
	return ""
}

// HandleError converts a low-level database error into an *errs.HTTPError.
//
//   - *errs.HTTPError: returned unchanged
//   - constraint violations: 400 with a readable message
//   - no rows: 404
//   - anything else: the opaque 500
func HandleError(err error) error {
	var httpErr *errs.HTTPError
	if errors.As(err, &httpErr) {
		return err
	}

	var pgerr *pgconn.PgError
	if errors.As(err, &pgerr) {
		sqlErr := ConvertPgError(pgerr)
		if sqlErr.Code == ForeignKeyViolation && sqlErr.ColumnName == "" {
			sqlErr.ColumnName = constraintColumn(sqlErr.TableName, sqlErr.ConstraintName, "_fkey")
		}

		errorCode := generateErrorCode(sqlErr.TableName, sqlErr.ColumnName, sqlErr.Code)
		userMessage := formatUserFriendlyMessage(sqlErr)

		switch sqlErr.Code {
		case ForeignKeyViolation:
			return errs.NewBadRequestError(userMessage, false, &errorCode, nil, nil)

		case UniqueViolation:
			columnName := extractColumnForUniqueViolation(sqlErr.TableName, sqlErr.ConstraintName)
			if columnName != "" {
				userMessage = strings.ReplaceAll(userMessage, "identifier", columnLabel(columnName))
			}
			return errs.NewBadRequestError(userMessage, true, &errorCode, nil, nil)

		case NotNullViolation:
			fieldErrors := []errs.FieldError{
				{
					Field: strings.ToLower(sqlErr.ColumnName),
					Error: "is required",
				},
			}
			return errs.NewBadRequestError(userMessage, true, &errorCode, fieldErrors, nil)

		case CheckViolation, InvalidText:
			return errs.NewBadRequestError(userMessage, true, &errorCode, nil, nil)

		default:
			return errs.NewInternalServerError()
		}
	}

	if errors.Is(err, pgx.ErrNoRows) || errors.Is(err, sql.ErrNoRows) {
		// Repositories may wrap as "table:<name>: ..." to name the entity.
		errMsg := err.Error()
		tablePrefix := "table:"
		if strings.Contains(errMsg, tablePrefix) {
			table := strings.Split(strings.Split(errMsg, tablePrefix)[1], ":")[0]
			entityName := getEntityName(table, "")
			return errs.NewNotFoundError(fmt.Sprintf("%s not found", entityName), true, nil)
		}
		return errs.NewNotFoundError("Resource not found", false, nil)
	}

	return errs.NewInternalServerError()
}
