package postgres

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"fieldbooking/internal/domain"
)

const uniqueViolation = "23505"

// classify maps driver failures onto domain kinds. Connection loss, admin
// shutdown, serialization failures and deadlines are retryable.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	var de *domain.Error
	if errors.As(err, &de) {
		return err
	}
	var perr *pq.Error
	if errors.As(err, &perr) {
		code := string(perr.Code)
		switch {
		case code == uniqueViolation:
			return &domain.Error{Kind: domain.KindConflict, Message: op + ": duplicate row", Cause: err}
		case strings.HasPrefix(code, "08"), strings.HasPrefix(code, "57P"), code == "40001", code == "40P01":
			return domain.WrapTransient(op, err)
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) ||
		errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return domain.WrapTransient(op, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
