package services

import (
	"sync"
	"testing"
	"time"

	"attendance/services/notification"
	"attendance/services/policy"
	"attendance/testutil"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// one meter of latitude in degrees
const meterLat = 1 / 111194.93

var lagos = time.FixedZone("WAT", 3600)

type recordingNotifier struct {
	mu     sync.Mutex
	events []notification.Event
}

func (r *recordingNotifier) Publish(ev notification.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return nil
}

func (r *recordingNotifier) Events() []notification.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]notification.Event(nil), r.events...)
}

type harness struct {
	db       *gorm.DB
	mr       *miniredis.Miniredis
	rdb      *redis.Client
	policies *policy.Store
	notifier *recordingNotifier

	mu  sync.Mutex
	now time.Time
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	db := testutil.NewDB(t)
	return &harness{
		db:       db,
		mr:       mr,
		rdb:      rdb,
		policies: policy.NewStore(policy.StoreOptions{DB: db, Redis: rdb}),
		notifier: &recordingNotifier{},
		// Monday 2 March 2026, 09:00 in Lagos
		now: time.Date(2026, 3, 2, 9, 0, 0, 0, lagos),
	}
}

func (h *harness) clock() time.Time {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.now
}

func (h *harness) setNow(t time.Time) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.now = t
}

func (h *harness) attendance() *AttendanceService {
	return NewAttendanceService(AttendanceServiceOptions{
		DB:       h.db,
		Redis:    h.rdb,
		Policies: h.policies,
		Notifier: h.notifier,
		Now:      h.clock,
	})
}

func (h *harness) payroll() *PayrollService {
	return NewPayrollService(PayrollServiceOptions{DB: h.db, Policies: h.policies, Now: h.clock})
}

func (h *harness) employees() *EmployeeService {
	return NewEmployeeService(EmployeeServiceOptions{DB: h.db, Now: h.clock})
}

func (h *harness) employers(geocoder Geocoder) *EmployerService {
	return NewEmployerService(EmployerServiceOptions{DB: h.db, Policies: h.policies, Geocoder: geocoder, Now: h.clock})
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func officeOffset(meters float64) (*float64, *float64) {
	lat := testutil.OfficeLat + meters*meterLat
	lon := testutil.OfficeLon
	return &lat, &lon
}
