package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/matricula-admin/internal/models"
)

type failingKeyValue struct {
	getErr error
	setErr error
}

func (f failingKeyValue) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return nil, false, f.getErr
}

func (f failingKeyValue) Set(ctx context.Context, key string, data []byte) error {
	return f.setErr
}

type observerStub struct {
	calls []string
}

func (o *observerStub) ObserveStoreOperation(operation, result string) {
	o.calls = append(o.calls, operation+":"+result)
}

func sampleEnrollment(id string) models.Enrollment {
	return models.Enrollment{
		ID:           id,
		RegisteredAt: time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
		Status:       models.EnrollmentStatusPending,
		Student:      models.Student{FirstNames: "Ana", LastNames: "Pérez", NationalID: "12345678"},
		Details:      models.EnrollmentInfo{Course: "arte", Modality: "virtual", StartDate: "2025-03-10"},
	}
}

func TestRecordStoreRoundTrip(t *testing.T) {
	obs := &observerStub{}
	store := NewRecordStore(NewMemoryKeyValue(), zap.NewNop(), obs)
	ctx := context.Background()

	assert.Empty(t, store.Load(ctx, "matriculas"))

	ok := store.Save(ctx, "matriculas", []models.Enrollment{sampleEnrollment("a"), sampleEnrollment("b")})
	require.True(t, ok)

	records := store.Load(ctx, "matriculas")
	require.Len(t, records, 2)
	assert.Equal(t, "a", records[0].ID)
	assert.Equal(t, "Pérez", records[0].Student.LastNames)
	assert.True(t, records[0].RegisteredAt.Equal(time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)))
	assert.Equal(t, []string{"load:missing", "save:ok", "load:ok"}, obs.calls)
}

func TestRecordStoreLoadFailsSoft(t *testing.T) {
	obs := &observerStub{}
	store := NewRecordStore(failingKeyValue{getErr: errors.New("boom")}, nil, obs)

	records := store.Load(context.Background(), "matriculas")
	assert.NotNil(t, records)
	assert.Empty(t, records)
	assert.Equal(t, []string{"load:error"}, obs.calls)
}

func TestRecordStoreLoadCorruptDocument(t *testing.T) {
	kv := NewMemoryKeyValue()
	require.NoError(t, kv.Set(context.Background(), "matriculas", []byte(`{not json`)))
	store := NewRecordStore(kv, zap.NewNop(), nil)

	assert.Empty(t, store.Load(context.Background(), "matriculas"))
}

func TestRecordStoreLoadNullDocument(t *testing.T) {
	kv := NewMemoryKeyValue()
	require.NoError(t, kv.Set(context.Background(), "matriculas", []byte(`null`)))
	store := NewRecordStore(kv, zap.NewNop(), nil)

	records := store.Load(context.Background(), "matriculas")
	assert.NotNil(t, records)
	assert.Empty(t, records)
}

func TestRecordStoreSaveReportsFailure(t *testing.T) {
	obs := &observerStub{}
	store := NewRecordStore(failingKeyValue{setErr: errors.New("quota exceeded")}, zap.NewNop(), obs)

	ok := store.Save(context.Background(), "matriculas", []models.Enrollment{sampleEnrollment("a")})
	assert.False(t, ok)
	assert.Equal(t, []string{"save:error"}, obs.calls)
}

func TestRecordStoreReadsBrowserDocument(t *testing.T) {
	doc := `[{"id":"lq2x8k1a9f","fechaRegistro":"2024-05-02T14:03:11.512Z","estado":"active",
"estudiante":{"nombres":"Luis","apellidos":"Rojas","dni":"44556677","fechaNacimiento":"1999-04-12","email":"l@r.pe","telefono":"987654321","direccion":"Av. Sol 1","genero":"masculino"},
"matricula":{"curso":"historia","modalidad":"hibrida","fechaInicio":"2024-06-01","fechaFin":"","observaciones":""}}]`
	kv := NewMemoryKeyValue()
	require.NoError(t, kv.Set(context.Background(), "matriculas", []byte(doc)))

	records := NewRecordStore(kv, zap.NewNop(), nil).Load(context.Background(), "matriculas")
	require.Len(t, records, 1)
	assert.Equal(t, models.EnrollmentStatusActive, records[0].Status)
	assert.Equal(t, "historia", records[0].Details.Course)
	assert.Equal(t, 2024, records[0].RegisteredAt.Year())
}

func TestRecordStoreLoadForUpdateReportsReadFailure(t *testing.T) {
	ctx := context.Background()

	broken := NewRecordStore(failingKeyValue{getErr: errors.New("timeout")}, zap.NewNop(), nil)
	records, ok := broken.LoadForUpdate(ctx, "matriculas")
	assert.False(t, ok)
	assert.Empty(t, records)

	kv := NewMemoryKeyValue()
	require.NoError(t, kv.Set(ctx, "matriculas", []byte("{not json")))
	corrupt := NewRecordStore(kv, zap.NewNop(), nil)
	_, ok = corrupt.LoadForUpdate(ctx, "matriculas")
	assert.False(t, ok)

	empty := NewRecordStore(NewMemoryKeyValue(), zap.NewNop(), nil)
	records, ok = empty.LoadForUpdate(ctx, "matriculas")
	assert.True(t, ok)
	assert.Empty(t, records)

	require.True(t, empty.Save(ctx, "matriculas", []models.Enrollment{sampleEnrollment("a")}))
	records, ok = empty.LoadForUpdate(ctx, "matriculas")
	assert.True(t, ok)
	require.Len(t, records, 1)
	assert.Equal(t, "a", records[0].ID)
}
