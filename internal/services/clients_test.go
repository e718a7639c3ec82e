package services

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/lojf/clientbook/internal/db"
	"github.com/lojf/clientbook/internal/metrics"
	"github.com/lojf/clientbook/internal/models"
)

// openTestDB returns an isolated SQLite database in a temp directory.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := db.Open(filepath.Join(t.TempDir(), "test.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close(gdb) })
	return gdb
}

func newTestClients(t *testing.T) (*Clients, *metrics.Metrics) {
	t.Helper()
	m := metrics.New("test")
	return NewClients(openTestDB(t), nil, m), m
}

func names(cs []models.Client) []string {
	out := make([]string, 0, len(cs))
	for _, c := range cs {
		out = append(out, c.Name)
	}
	return out
}

func mustAdd(t *testing.T, s *Clients, name, email, phone string) *models.Client {
	t.Helper()
	c, err := s.Add(context.Background(), ClientInput{Name: name, Email: email, Phone: phone})
	require.NoError(t, err)
	return c
}

func TestAdd_NormalizesAndPersists(t *testing.T) {
	s, m := newTestClients(t)
	ctx := context.Background()

	c, err := s.Add(ctx, ClientInput{Name: "  ana   maria ", Email: " Ana@X.com ", Phone: "  "})
	require.NoError(t, err)
	assert.NotZero(t, c.ID)
	assert.Equal(t, "Ana Maria", c.Name)
	require.NotNil(t, c.Email)
	assert.Equal(t, "Ana@X.com", *c.Email)
	assert.Nil(t, c.Phone)

	all, err := s.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Ana Maria"}, names(all))
	assert.Equal(t, "ana maria", all[0].NameKey)
	require.NotNil(t, all[0].EmailKey)
	assert.Equal(t, "ana@x.com", *all[0].EmailKey)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.OperationCounter("add", metrics.ResultOK)))
}

func TestAdd_RejectsDuplicateNameIgnoringCaseAndSpaces(t *testing.T) {
	s, m := newTestClients(t)
	mustAdd(t, s, "Ana Maria", "", "")

	for _, dup := range []string{"ana maria", "  ANA   MARIA  ", "Ana\tMaria"} {
		_, err := s.Add(context.Background(), ClientInput{Name: dup})
		var ce *ConflictError
		require.ErrorAs(t, err, &ce, dup)
		assert.Equal(t, FieldName, ce.Field)
		assert.Equal(t, "Ana Maria", ce.Value)
		assert.Equal(t, "Client 'Ana Maria' already exists.", ce.Error())
	}

	all, _ := s.List(context.Background())
	assert.Len(t, all, 1)
	assert.Equal(t, 3.0, testutil.ToFloat64(m.OperationCounter("add", metrics.ResultConflict)))
}

func TestAdd_RejectsDuplicateEmailIgnoringCase(t *testing.T) {
	s, _ := newTestClients(t)
	mustAdd(t, s, "Ana", "ana@x.com", "")

	_, err := s.Add(context.Background(), ClientInput{Name: "Ivan", Email: "ANA@X.COM"})
	var ce *ConflictError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, FieldEmail, ce.Field)
	assert.Equal(t, "Email 'ANA@X.COM' already exists.", ce.Error())
}

func TestAdd_ManyClientsWithoutEmail(t *testing.T) {
	s, _ := newTestClients(t)
	mustAdd(t, s, "Ana", "", "")
	mustAdd(t, s, "Leo", "", "")
	all, err := s.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Ana", "Leo"}, names(all))
}

func TestAdd_InvalidInputDoesNotWrite(t *testing.T) {
	s, m := newTestClients(t)
	_, err := s.Add(context.Background(), ClientInput{Name: "  "})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	all, _ := s.List(context.Background())
	assert.Empty(t, all)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.OperationCounter("add", metrics.ResultInvalid)))
}

func TestEdit_UniquenessExcludesSelf(t *testing.T) {
	s, _ := newTestClients(t)
	ctx := context.Background()
	ana := mustAdd(t, s, "Ana", "ana@x.com", "1")
	ivan := mustAdd(t, s, "Ivan", "ivan@x.com", "2")

	// unchanged values
	got, err := s.Edit(ctx, ana.ID, ClientInput{Name: "ana", Email: "ANA@x.com", Phone: "1"})
	require.NoError(t, err)
	assert.Equal(t, "Ana", got.Name)

	_, err = s.Edit(ctx, ana.ID, ClientInput{Name: "IVAN", Email: "ana@x.com"})
	var ce *ConflictError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, FieldName, ce.Field)

	_, err = s.Edit(ctx, ana.ID, ClientInput{Name: "Ana", Email: "Ivan@X.com"})
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, FieldEmail, ce.Field)

	// conflicts left both records untouched
	reloaded, err := s.Get(ctx, ivan.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ivan", reloaded.Name)
	reloaded, err = s.Get(ctx, ana.ID)
	require.NoError(t, err)
	assert.Equal(t, "ANA@x.com", reloaded.EmailOrEmpty())
}

func TestEdit_ClearsOptionalFields(t *testing.T) {
	s, _ := newTestClients(t)
	ctx := context.Background()
	ana := mustAdd(t, s, "Ana", "ana@x.com", "123")

	got, err := s.Edit(ctx, ana.ID, ClientInput{Name: "Ana Lopez", Email: " ", Phone: ""})
	require.NoError(t, err)
	assert.Equal(t, "Ana Lopez", got.Name)
	assert.Nil(t, got.Email)
	assert.Nil(t, got.Phone)

	// the freed email can be reused
	mustAdd(t, s, "Leo", "ana@x.com", "")
}

func TestEdit_NotFound(t *testing.T) {
	s, _ := newTestClients(t)
	_, err := s.Edit(context.Background(), 42, ClientInput{Name: "Ana"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRemove(t *testing.T) {
	s, m := newTestClients(t)
	ctx := context.Background()
	ana := mustAdd(t, s, "Ana", "", "")
	mustAdd(t, s, "Leo", "", "")

	removed, err := s.Remove(ctx, ana.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ana", removed.Name)

	_, err = s.Remove(ctx, ana.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.Remove(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)

	all, _ := s.List(ctx)
	assert.Equal(t, []string{"Leo"}, names(all))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.OperationCounter("remove", metrics.ResultNotFound)))
}

func TestSearch_SubstringAcrossFields(t *testing.T) {
	s, _ := newTestClients(t)
	ctx := context.Background()
	mustAdd(t, s, "Ana", "", "")
	mustAdd(t, s, "Ivan", "", "")
	mustAdd(t, s, "Beto", "beto@ANDES.com", "")
	mustAdd(t, s, "Zoe", "", "555-0199")

	got, err := s.Search(ctx, "an")
	require.NoError(t, err)
	if diff := cmp.Diff([]string{"Ana", "Ivan", "Beto"}, names(got)); diff != "" {
		t.Errorf("search mismatch (-want +got):\n%s", diff)
	}

	got, err = s.Search(ctx, "  AN ")
	require.NoError(t, err)
	assert.Len(t, got, 3)

	got, err = s.Search(ctx, "0199")
	require.NoError(t, err)
	assert.Equal(t, []string{"Zoe"}, names(got))

	got, err = s.Search(ctx, "xyz")
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = s.Search(ctx, "%")
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = s.Search(ctx, "")
	require.NoError(t, err)
	assert.Len(t, got, 4)
}

func TestSearch_OnlyNames(t *testing.T) {
	s, _ := newTestClients(t)
	mustAdd(t, s, "Ana", "", "")
	mustAdd(t, s, "Ivan", "", "")
	mustAdd(t, s, "Beto", "", "")

	got, err := s.Search(context.Background(), "an")
	require.NoError(t, err)
	assert.Equal(t, []string{"Ana", "Ivan"}, names(got))
}

func TestExport_CSV(t *testing.T) {
	s, _ := newTestClients(t)
	mustAdd(t, s, "Ana", "a@x.com", "123")
	mustAdd(t, s, "Leo", "", "")

	var buf bytes.Buffer
	require.NoError(t, s.Export(context.Background(), &buf))
	assert.Equal(t, "ID,Name,Email,Phone\n1,Ana,a@x.com,123\n2,Leo,,\n", buf.String())
}

func TestWriteCSV_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))
	assert.Equal(t, "ID,Name,Email,Phone\n", buf.String())
}

// TestUniqueIndex_IsAuthoritative writes around the pre-check and verifies
// the index violation is still reported as a conflict on the right field.
func TestUniqueIndex_IsAuthoritative(t *testing.T) {
	gdb := openTestDB(t)
	email := "a@x.com"
	require.NoError(t, gdb.Create(&models.Client{Name: "Ana", Email: &email}).Error)

	dupName := models.Client{Name: "ANA"}
	err := gdb.Create(&dupName).Error
	require.Error(t, err)
	var ce *ConflictError
	require.True(t, errors.As(translateWriteError(err, &dupName), &ce))
	assert.Equal(t, FieldName, ce.Field)

	upper := "A@X.COM"
	dupEmail := models.Client{Name: "Leo", Email: &upper}
	err = gdb.Create(&dupEmail).Error
	require.Error(t, err)
	require.True(t, errors.As(translateWriteError(err, &dupEmail), &ce))
	assert.Equal(t, FieldEmail, ce.Field)
	assert.Equal(t, "A@X.COM", ce.Value)
}
