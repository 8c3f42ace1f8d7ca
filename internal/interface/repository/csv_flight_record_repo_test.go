package repository

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"flight-history-collector/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVFlightRecordRepository_MissingFileIsEmpty(t *testing.T) {
	repo := NewCSVFlightRecordRepository(filepath.Join(t.TempDir(), "output.csv"))

	got, err := repo.FindAll(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestCSVFlightRecordRepository_AppendThenRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "output.csv")
	repo := NewCSVFlightRecordRepository(path)
	ctx := context.Background()

	first := sampleRecord("AA100")
	second := sampleRecord("AA200")
	second.Status = ""
	second.Duration = ""

	require.NoError(t, repo.Append(ctx, []entity.FlightRecord{first}))
	require.NoError(t, repo.Append(ctx, []entity.FlightRecord{second}))

	got, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []entity.FlightRecord{first, second}, got)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "NUMBER,AIRLINE,MODEL,DATE,FROM,TO,FLIGHT,FLIGHT TIME,STATUS", lines[0])
	assert.Contains(t, lines[1], "01.05.2023")
}

func TestCSVFlightRecordRepository_AppendNeverRewritesRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "output.csv")
	existing := "NUMBER,AIRLINE,MODEL,DATE,FROM,TO,FLIGHT,FLIGHT TIME,STATUS\nN1,,,02.01.2022,A,B,X1,01:00,Landed\n"
	require.NoError(t, os.WriteFile(path, []byte(existing), 0o644))

	repo := NewCSVFlightRecordRepository(path)
	require.NoError(t, repo.Append(context.Background(), []entity.FlightRecord{sampleRecord("AA100")}))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(raw), existing))
	assert.Equal(t, 1, strings.Count(string(raw), "NUMBER,"))
}

func TestCSVFlightRecordRepository_ShortRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "output.csv")
	legacy := "NUMBER,DATE\nN1,,,02.01.2022,A,B\n"
	require.NoError(t, os.WriteFile(path, []byte(legacy), 0o644))

	got, err := NewCSVFlightRecordRepository(path).FindAll(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "N1", got[0].Registration)
	assert.Equal(t, "B", got[0].Destination)
	assert.Equal(t, "", got[0].Flight)
}

func TestCSVFlightRecordRepository_BadDate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "output.csv")
	require.NoError(t, os.WriteFile(path, []byte("N1,,,yesterday\n"), 0o644))

	_, err := NewCSVFlightRecordRepository(path).FindAll(context.Background())
	assert.Error(t, err)
}
