package services

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	model "github.com/adelorme/qr1board/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// FixedTime is used to patch time.Now in tests.
var FixedTime = time.Date(2025, time.March, 5, 0, 0, 0, 0, time.UTC)

var testDBSeq int64

// newTestService opens a private in-memory SQLite database per test. The
// shared-cache name keeps every pooled connection on the same database.
func newTestService(t *testing.T) *ActionService {
	t.Helper()
	dsn := fmt.Sprintf("file:qr1test%d?mode=memory&cache=shared", atomic.AddInt64(&testDBSeq, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.Action{}, &model.ListValue{}, &model.ActionAudit{}))
	return &ActionService{db: db}
}

func date(year int, month time.Month, day int) *time.Time {
	d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &d
}

// mustCreate persists an action through the normal create path.
func mustCreate(t *testing.T, s *ActionService, a model.Action) model.Action {
	t.Helper()
	require.NoError(t, s.CreateAction(&a))
	return a
}
