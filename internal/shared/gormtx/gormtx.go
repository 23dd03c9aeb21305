// Package gormtx lets gorm repositories join a *sql.Tx opened by a service.
package gormtx

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

// Conn returns a session bound to ctx that runs on tx when tx is not nil.
// WithContext clones the statement, so swapping the pool never leaks into db.
func Conn(ctx context.Context, db *gorm.DB, tx *sql.Tx) *gorm.DB {
	session := db.WithContext(ctx)
	if tx != nil {
		session.Statement.ConnPool = tx
	}
	return session
}
