package dberrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func uniqueViolation(constraint string) error {
	return &pgconn.PgError{Code: "23505", ConstraintName: constraint}
}

func TestIsUniqueViolation(t *testing.T) {
	if !IsUniqueViolation(uniqueViolation("users_email_key")) {
		t.Error("IsUniqueViolation() = false for a 23505 error")
	}
	if IsUniqueViolation(&pgconn.PgError{Code: "23503"}) {
		t.Error("IsUniqueViolation() = true for a foreign key violation")
	}
	if IsUniqueViolation(errors.New("plain error")) {
		t.Error("IsUniqueViolation() = true for a non-postgres error")
	}
	if IsUniqueViolation(nil) {
		t.Error("IsUniqueViolation(nil) = true")
	}
}

func TestIsDuplicateConstraintError(t *testing.T) {
	err := uniqueViolation("communities_join_code_key")

	if !IsDuplicateConstraintError(err, "communities_join_code_key") {
		t.Error("IsDuplicateConstraintError() = false for the matching constraint")
	}
	if IsDuplicateConstraintError(err, "users_email_key") {
		t.Error("IsDuplicateConstraintError() = true for a different constraint")
	}
}

func TestIsDuplicateConstraintError_Wrapped(t *testing.T) {
	err := fmt.Errorf("error executing query: %w", uniqueViolation("users_email_key"))
	if !IsDuplicateConstraintError(err, "users_email_key") {
		t.Error("IsDuplicateConstraintError() = false for a wrapped pg error")
	}
}

func TestIsForeignKeyViolation(t *testing.T) {
	if !IsForeignKeyViolation(&pgconn.PgError{Code: "23503"}) {
		t.Error("IsForeignKeyViolation() = false for a 23503 error")
	}
	if IsForeignKeyViolation(uniqueViolation("any")) {
		t.Error("IsForeignKeyViolation() = true for a unique violation")
	}
}
