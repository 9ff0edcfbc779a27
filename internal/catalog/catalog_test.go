package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	pgx "github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cfgDB struct{ configured bool }

func (d *cfgDB) Exec(ctx context.Context, sql string, args ...any) error { return nil }
func (d *cfgDB) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}
func (d *cfgDB) Health(ctx context.Context) error { return nil }
func (d *cfgDB) IsConfigured() bool               { return d.configured }

func TestNew_SelectsSource(t *testing.T) {
	tests := []struct {
		name     string
		db       Database
		path     string
		expected string
	}{
		{"postgres when configured", &cfgDB{configured: true}, "catalog.json", "postgres"},
		{"file when path set", &cfgDB{configured: false}, "catalog.json", "file"},
		{"static without db", nil, "", "static"},
		{"static with unconfigured db", &cfgDB{}, "", "static"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, New(tt.db, tt.path).Name())
		})
	}
}

func TestDefault(t *testing.T) {
	c := Default()

	require.Len(t, c.Centers, 2)
	require.Len(t, c.Mechanics, 3)
	assert.Equal(t, "center_1", c.Centers[0].ID)
	assert.Equal(t, 20.0, c.Centers[1].Location.Lat)
	assert.Equal(t, "mech_3", c.Mechanics[2].ID)
	assert.Equal(t, "center_2", c.Mechanics[2].CenterID)
	assert.Equal(t, 10.2, c.Mechanics[1].Location.Lon)
}

func TestStaticSource_ReturnsCopies(t *testing.T) {
	src := NewStaticSource(Default())

	first, err := src.Load(context.Background())
	require.NoError(t, err)
	first.Centers[0].ID = "changed"

	second, err := src.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "center_1", second.Centers[0].ID)
}

func TestFileSource(t *testing.T) {
	dir := t.TempDir()

	good := filepath.Join(dir, "catalog.json")
	require.NoError(t, os.WriteFile(good, []byte(`{
		"centers": [{"id": "c1", "location": {"lat": 1, "lon": 2}}],
		"mechanics": [{"id": "m1", "center_id": "c1", "location": {"lat": 1.1, "lon": 2.1}}]
	}`), 0o600))

	c, err := NewFileSource(good).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "c1", c.Centers[0].ID)
	assert.Equal(t, 2.1, c.Mechanics[0].Location.Lon)

	unknown := filepath.Join(dir, "unknown.json")
	require.NoError(t, os.WriteFile(unknown, []byte(`{"centres": []}`), 0o600))
	_, err = NewFileSource(unknown).Load(context.Background())
	assert.Error(t, err)

	_, err = NewFileSource(filepath.Join(dir, "missing.json")).Load(context.Background())
	assert.Error(t, err)
}
