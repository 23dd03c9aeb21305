package app

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/schema"
)

func TestModels_DistinctTables(t *testing.T) {
	cacheStore := &sync.Map{}
	seen := map[string]bool{}

	for _, m := range Models() {
		s, err := schema.Parse(m, cacheStore, schema.NamingStrategy{})
		require.NoError(t, err)
		assert.False(t, seen[s.Table], "table %s registered twice", s.Table)
		seen[s.Table] = true
	}

	assert.True(t, seen["attendances"])
	assert.True(t, seen["payroll_items"])
	assert.True(t, seen["leave_requests"])
}

func TestRawSchema_CoversSQLTables(t *testing.T) {
	joined := strings.Join(rawSchema, "\n")
	assert.Contains(t, joined, "CREATE TABLE IF NOT EXISTS outbox_events")
	assert.Contains(t, joined, "PRIMARY KEY (tenant_id, counter_type)")
}
