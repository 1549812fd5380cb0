package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"repairshop/internal/adapters/email"
	"repairshop/internal/adapters/storage"
	appointmentstore "repairshop/internal/adapters/storage/appointment"
	"repairshop/internal/domain/admin"
	"repairshop/internal/domain/appointment"
	"repairshop/internal/domain/settings"
)

var fixedTime = time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)

func fixedNow() time.Time { return fixedTime }

// sequentialTokens returns a token generator that yields tok-1, tok-2, ...
func sequentialTokens() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("tok-%d", n)
	}
}

// mockAppointmentStore implements the appointment store interfaces in memory.
// Book holds a mutex for the whole callback, like the real store's day lock.
type mockAppointmentStore struct {
	mu       sync.Mutex
	rows     map[uint]appointment.Appointment
	nextID   uint
	settings *settings.Settings
	failWith error
}

func newMockAppointmentStore() *mockAppointmentStore {
	return &mockAppointmentStore{rows: make(map[uint]appointment.Appointment), nextID: 1}
}

func (m *mockAppointmentStore) withLimit(limit int) *mockAppointmentStore {
	m.settings = &settings.Settings{ID: settings.SingletonID, DailyAppointmentLimit: limit}
	return m
}

func (m *mockAppointmentStore) put(a appointment.Appointment) appointment.Appointment {
	if a.ID == 0 {
		a.ID = m.nextID
		m.nextID++
	}
	m.rows[a.ID] = a
	return a
}

func (m *mockAppointmentStore) GetByID(_ context.Context, id uint) (appointment.Appointment, error) {
	a, ok := m.rows[id]
	if !ok {
		return appointment.Appointment{}, fmt.Errorf("appointment %d: %w", id, storage.ErrNotFound)
	}
	return a, nil
}

func (m *mockAppointmentStore) Save(_ context.Context, a *appointment.Appointment) error {
	if m.failWith != nil {
		return m.failWith
	}
	*a = m.put(*a)
	return nil
}

func (m *mockAppointmentStore) Delete(_ context.Context, id uint) error {
	if _, ok := m.rows[id]; !ok {
		return fmt.Errorf("appointment %d: %w", id, storage.ErrNotFound)
	}
	delete(m.rows, id)
	return nil
}

func (m *mockAppointmentStore) CountOnDay(_ context.Context, day time.Time, excludeID uint) (int64, error) {
	start, end := appointment.DayBounds(day)
	var n int64
	for id, a := range m.rows {
		if id == excludeID || a.Status == appointment.StatusCancelled {
			continue
		}
		if !a.AppointmentDate.Before(start) && a.AppointmentDate.Before(end) {
			n++
		}
	}
	return n, nil
}

func (m *mockAppointmentStore) Settings(_ context.Context) (settings.Settings, error) {
	if m.settings == nil {
		return settings.Default(), nil
	}
	return *m.settings, nil
}

// Book runs fn against a copy of the rows and keeps the copy only if fn succeeds.
func (m *mockAppointmentStore) Book(_ context.Context, _ time.Time, fn func(tx appointmentstore.BookingTx) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	snapshot := make(map[uint]appointment.Appointment, len(m.rows))
	for k, v := range m.rows {
		snapshot[k] = v
	}
	nextID := m.nextID
	if err := fn(m); err != nil {
		m.rows = snapshot
		m.nextID = nextID
		return err
	}
	return nil
}

// mockAdminStore implements the admin store interfaces in memory.
type mockAdminStore struct {
	admins  map[string]admin.Admin
	saveErr error
}

func newMockAdminStore() *mockAdminStore {
	return &mockAdminStore{admins: make(map[string]admin.Admin)}
}

func (m *mockAdminStore) GetByUsername(_ context.Context, username string) (admin.Admin, error) {
	a, ok := m.admins[username]
	if !ok {
		return admin.Admin{}, storage.ErrNotFound
	}
	return a, nil
}

func (m *mockAdminStore) Count(_ context.Context) (int64, error) {
	return int64(len(m.admins)), nil
}

func (m *mockAdminStore) Save(_ context.Context, a *admin.Admin) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	if a.ID == 0 {
		a.ID = uint(len(m.admins) + 1)
	}
	m.admins[a.Username] = *a
	return nil
}

// mockSettingsStore implements SettingsStoreForUpdate.
type mockSettingsStore struct {
	rows map[uint]settings.Settings
}

func (m *mockSettingsStore) Save(_ context.Context, s settings.Settings) error {
	if m.rows == nil {
		m.rows = make(map[uint]settings.Settings)
	}
	m.rows[settings.SingletonID] = s
	return nil
}

// failingSender always fails to deliver.
type failingSender struct{}

func (failingSender) Send(context.Context, email.SendRequest) (email.SendResult, error) {
	return email.SendResult{}, errors.New("provider down")
}
