package repository

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/go-sql-driver/mysql"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrDuplicateEmail     = errors.New("email already exists")
	ErrArticleNotFound    = errors.New("article not found")
	ErrNotFoundOrNotOwner = errors.New("article not found or not owned by caller")
	ErrStoreUnavailable   = errors.New("store unavailable")
	ErrFieldTooLong       = errors.New("value exceeds column length")
)

const (
	mysqlDuplicateEntry  = 1062
	mysqlDataTooLong     = 1406
	mysqlNoReferencedRow = 1452
)

// wrapErr annotates err with op and tags connectivity failures with
// ErrStoreUnavailable so callers can tell them from query errors.
func wrapErr(op string, err error) error {
	if isUnavailable(err) {
		return fmt.Errorf("%s: %w: %w", op, ErrStoreUnavailable, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func isUnavailable(err error) bool {
	if errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, mysql.ErrInvalidConn) ||
		errors.Is(err, sql.ErrConnDone) ||
		errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

func isDuplicateEntryError(err error) bool {
	return mysqlErrorNumber(err) == mysqlDuplicateEntry
}

func isDataTooLongError(err error) bool {
	return mysqlErrorNumber(err) == mysqlDataTooLong
}

func isForeignKeyError(err error) bool {
	return mysqlErrorNumber(err) == mysqlNoReferencedRow
}

func mysqlErrorNumber(err error) uint16 {
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number
	}
	return 0
}

// now returns the repository clock truncated to the DATETIME(3) precision.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}
