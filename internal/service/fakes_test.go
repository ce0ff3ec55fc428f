package service

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"eventro/internal/external"
	"eventro/internal/models"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

func duplicateKeyError() error {
	return &pq.Error{Code: "23505", Message: "duplicate key value violates unique constraint"}
}

type fakeProfiles struct {
	mu       sync.Mutex
	profiles map[string]*models.Profile
}

func newFakeProfiles(profiles ...models.Profile) *fakeProfiles {
	f := &fakeProfiles{profiles: make(map[string]*models.Profile)}
	for i := range profiles {
		p := profiles[i]
		f.profiles[p.ID] = &p
	}
	return f
}

func (f *fakeProfiles) GetByID(_ context.Context, id string) (*models.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.profiles[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProfiles) Upsert(_ context.Context, profile *models.Profile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *profile
	f.profiles[profile.ID] = &cp
	return nil
}

func (f *fakeProfiles) UpdateAvatarURL(_ context.Context, id, url string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p, ok := f.profiles[id]; ok {
		p.AvatarURL = &url
	}
	return nil
}

func (f *fakeProfiles) UpdateBannerURL(_ context.Context, id, url string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p, ok := f.profiles[id]; ok {
		p.BannerURL = &url
	}
	return nil
}

type fakeEvents struct {
	mu      sync.Mutex
	events  map[int64]*models.Event
	nextID  int64
	engaged map[string][]int64
	slugs   map[string]bool
	listed  int
}

func newFakeEvents(events ...models.Event) *fakeEvents {
	f := &fakeEvents{
		events:  make(map[int64]*models.Event),
		engaged: make(map[string][]int64),
		slugs:   make(map[string]bool),
	}
	for i := range events {
		e := events[i]
		f.events[e.ID] = &e
		if e.ID >= f.nextID {
			f.nextID = e.ID
		}
	}
	return f
}

func (f *fakeEvents) Create(_ context.Context, event *models.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.slugs[event.Slug] {
		return duplicateKeyError()
	}
	f.nextID++
	event.ID = f.nextID
	f.slugs[event.Slug] = true
	cp := *event
	f.events[event.ID] = &cp
	return nil
}

func (f *fakeEvents) GetByID(_ context.Context, id int64) (*models.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.events[id]
	if !ok {
		return nil, nil
	}
	cp := *e
	return &cp, nil
}

func (f *fakeEvents) Update(_ context.Context, event *models.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *event
	f.events[event.ID] = &cp
	return nil
}

func (f *fakeEvents) UpdateImageURL(_ context.Context, id int64, url string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if e, ok := f.events[id]; ok {
		e.ImageURL = &url
	}
	return nil
}

func (f *fakeEvents) sorted(keep func(e *models.Event) bool) []models.Event {
	var out []models.Event
	for _, e := range f.events {
		if keep(e) {
			out = append(out, *e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (f *fakeEvents) List(_ context.Context, filter models.EventFilter) ([]models.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listed++
	q := strings.ToLower(filter.Query)
	return f.sorted(func(e *models.Event) bool {
		if filter.Category != "" && e.Category != filter.Category {
			return false
		}
		return q == "" || strings.Contains(strings.ToLower(e.Title), q)
	}), nil
}

func (f *fakeEvents) ListStartingBetween(_ context.Context, from, to time.Time) ([]models.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sorted(func(e *models.Event) bool {
		return !e.StartAt.Before(from) && e.StartAt.Before(to)
	}), nil
}

func (f *fakeEvents) ListUpcoming(_ context.Context, after time.Time, limit int) ([]models.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := f.sorted(func(e *models.Event) bool { return e.StartAt.After(after) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeEvents) ListAfterID(_ context.Context, afterID int64, limit int) ([]models.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := f.sorted(func(e *models.Event) bool { return e.ID > afterID })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeEvents) ListEngagedByUser(_ context.Context, userID string) ([]models.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ids := make(map[int64]bool)
	for _, id := range f.engaged[userID] {
		ids[id] = true
	}
	return f.sorted(func(e *models.Event) bool { return ids[e.ID] }), nil
}

type fakeTickets struct {
	mu      sync.Mutex
	tickets []*models.Ticket
	calls   []string
}

func newFakeTickets(tickets ...models.Ticket) *fakeTickets {
	f := &fakeTickets{}
	for i := range tickets {
		t := tickets[i]
		f.tickets = append(f.tickets, &t)
	}
	return f
}

func (f *fakeTickets) Create(_ context.Context, ticket *models.Ticket) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.tickets {
		if t.Code == ticket.Code {
			return duplicateKeyError()
		}
	}
	ticket.ID = uuid.NewString()
	ticket.PurchasedAt = time.Now()
	cp := *ticket
	f.tickets = append(f.tickets, &cp)
	return nil
}

func (f *fakeTickets) CreateBatch(ctx context.Context, tickets []*models.Ticket) (int, error) {
	inserted := 0
	for _, t := range tickets {
		err := f.Create(ctx, t)
		if err == nil {
			inserted++
		}
	}
	return inserted, nil
}

func (f *fakeTickets) GetByID(_ context.Context, id string) (*models.Ticket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "id")
	for _, t := range f.tickets {
		if t.ID == id {
			cp := *t
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeTickets) GetByCode(_ context.Context, code string) (*models.Ticket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "code")
	for _, t := range f.tickets {
		if t.Code == code {
			cp := *t
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeTickets) FindByPartialCode(_ context.Context, fragment string) (*models.Ticket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "partial")
	var best *models.Ticket
	for _, t := range f.tickets {
		if !strings.Contains(strings.ToLower(t.Code), strings.ToLower(fragment)) {
			continue
		}
		if best == nil || t.PurchasedAt.Before(best.PurchasedAt) {
			best = t
		}
	}
	if best == nil {
		return nil, nil
	}
	cp := *best
	return &cp, nil
}

func (f *fakeTickets) ListByUser(_ context.Context, userID string) ([]models.Ticket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Ticket
	for _, t := range f.tickets {
		if t.UserID == userID {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (f *fakeTickets) ListHolders(_ context.Context, eventID int64) ([]models.TicketHolder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.TicketHolder
	for _, t := range f.tickets {
		if t.EventID == eventID {
			out = append(out, models.TicketHolder{
				TicketID:   t.ID,
				TicketCode: t.Code,
				UserID:     t.UserID,
				FirstName:  "Holder",
				LastName:   t.Code,
				Email:      strings.ToLower(t.Code) + "@example.com",
			})
		}
	}
	return out, nil
}

func (f *fakeTickets) CountByEvent(_ context.Context, eventID int64) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, t := range f.tickets {
		if t.EventID == eventID {
			n++
		}
	}
	return n, nil
}

type fakeCheckIns struct {
	mu      sync.Mutex
	records map[string]*models.CheckIn
	err     error
}

func newFakeCheckIns() *fakeCheckIns {
	return &fakeCheckIns{records: make(map[string]*models.CheckIn)}
}

func checkInKey(ticketID string, day int) string {
	return fmt.Sprintf("%s/%d", ticketID, day)
}

func (f *fakeCheckIns) Create(_ context.Context, c *models.CheckIn) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return false, f.err
	}
	key := checkInKey(c.TicketID, c.DayNumber)
	if _, ok := f.records[key]; ok {
		return false, nil
	}
	c.ID = uuid.NewString()
	c.CheckedInAt = time.Now()
	cp := *c
	f.records[key] = &cp
	return true, nil
}

func (f *fakeCheckIns) GetByTicketAndDay(_ context.Context, ticketID string, day int) (*models.CheckIn, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.records[checkInKey(ticketID, day)]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (f *fakeCheckIns) ListByEvent(_ context.Context, eventID int64, day int) ([]models.CheckIn, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.CheckIn
	for _, c := range f.records {
		if c.EventID == eventID && (day == 0 || c.DayNumber == day) {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (f *fakeCheckIns) CountByDay(_ context.Context, eventID int64) ([]models.DayCount, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	counts := make(map[int]int)
	for _, c := range f.records {
		if c.EventID == eventID {
			counts[c.DayNumber]++
		}
	}
	var out []models.DayCount
	for day, n := range counts {
		out = append(out, models.DayCount{DayNumber: day, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DayNumber < out[j].DayNumber })
	return out, nil
}

type fakeAttendees struct {
	mu      sync.Mutex
	byEmail map[string]*models.Attendee
	err     error
}

func newFakeAttendees() *fakeAttendees {
	return &fakeAttendees{byEmail: make(map[string]*models.Attendee)}
}

func (f *fakeAttendees) Resolve(_ context.Context, a *models.Attendee) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	key := strings.ToLower(a.Email)
	if existing, ok := f.byEmail[key]; ok {
		*a = *existing
		return nil
	}
	a.ID = uuid.NewString()
	cp := *a
	f.byEmail[key] = &cp
	return nil
}

type fakeDistributions struct {
	mu      sync.Mutex
	records map[string]*models.Distribution
	err     error
}

func newFakeDistributions() *fakeDistributions {
	return &fakeDistributions{records: make(map[string]*models.Distribution)}
}

func (f *fakeDistributions) Create(_ context.Context, d *models.Distribution) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return false, f.err
	}
	key := d.AttendeeID + "/" + d.ItemType
	if _, ok := f.records[key]; ok {
		return false, nil
	}
	d.ID = uuid.NewString()
	cp := *d
	f.records[key] = &cp
	return true, nil
}

func (f *fakeDistributions) GetByAttendeeAndItem(_ context.Context, attendeeID, itemType string) (*models.Distribution, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.records[attendeeID+"/"+itemType]
	if !ok {
		return nil, nil
	}
	cp := *d
	return &cp, nil
}

func (f *fakeDistributions) ListByEvent(_ context.Context, eventID int64) ([]models.Distribution, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Distribution
	for _, d := range f.records {
		if d.EventID == eventID {
			out = append(out, *d)
		}
	}
	return out, nil
}

type fakeMessages struct {
	mu       sync.Mutex
	messages []*models.Message
}

func (f *fakeMessages) Create(_ context.Context, m *models.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	m.ID = uuid.NewString()
	f.messages = append(f.messages, m)
	return nil
}

func (f *fakeMessages) CreateBatch(ctx context.Context, messages []*models.Message) error {
	for _, m := range messages {
		if err := f.Create(ctx, m); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeMessages) list(keep func(m *models.Message) bool) []models.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Message
	for _, m := range f.messages {
		if keep(m) {
			out = append(out, *m)
		}
	}
	return out
}

func (f *fakeMessages) ListInbox(_ context.Context, userID string) ([]models.Message, error) {
	return f.list(func(m *models.Message) bool { return m.RecipientID == userID }), nil
}

func (f *fakeMessages) ListSent(_ context.Context, userID string) ([]models.Message, error) {
	return f.list(func(m *models.Message) bool { return m.SenderID == userID }), nil
}

func (f *fakeMessages) MarkRead(_ context.Context, id, recipientID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, m := range f.messages {
		if m.ID == id && m.RecipientID == recipientID {
			m.Read = true
			return true, nil
		}
	}
	return false, nil
}

type fakeBills struct {
	mu    sync.Mutex
	bills []*models.Bill
}

func (f *fakeBills) Create(_ context.Context, b *models.Bill) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	b.ID = uuid.NewString()
	cp := *b
	f.bills = append(f.bills, &cp)
	return nil
}

func (f *fakeBills) GetByID(_ context.Context, id string) (*models.Bill, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, b := range f.bills {
		if b.ID == id {
			cp := *b
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeBills) ListByEvent(_ context.Context, eventID int64) ([]models.Bill, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Bill
	for _, b := range f.bills {
		if b.EventID == eventID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (f *fakeBills) Delete(_ context.Context, id string, eventID int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, b := range f.bills {
		if b.ID == id && b.EventID == eventID {
			f.bills = append(f.bills[:i], f.bills[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeBills) UpdateReceiptURL(_ context.Context, id, url string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, b := range f.bills {
		if b.ID == id {
			b.ReceiptURL = &url
		}
	}
	return nil
}

func (f *fakeBills) TotalsByCategory(_ context.Context, eventID int64) ([]models.CategoryTotal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	totals := make(map[string]int64)
	for _, b := range f.bills {
		if b.EventID == eventID {
			totals[b.Category] += b.AmountCents
		}
	}
	var out []models.CategoryTotal
	for c, amount := range totals {
		out = append(out, models.CategoryTotal{Category: c, AmountCents: amount})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Category < out[j].Category })
	return out, nil
}

type fakeReminders struct {
	mu      sync.Mutex
	claimed map[string]bool
}

func newFakeReminders() *fakeReminders {
	return &fakeReminders{claimed: make(map[string]bool)}
}

func (f *fakeReminders) Claim(_ context.Context, eventID int64, userID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := fmt.Sprintf("%d/%s", eventID, userID)
	if f.claimed[key] {
		return false, nil
	}
	f.claimed[key] = true
	return true, nil
}

func (f *fakeReminders) Release(_ context.Context, eventID int64, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.claimed, fmt.Sprintf("%d/%s", eventID, userID))
	return nil
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []models.NotificationRequestedEvent
}

func (f *fakeNotifier) Dispatch(n models.NotificationRequestedEvent) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, n)
	return true
}

func (f *fakeNotifier) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

// fakeFunctions fails every call unless a response is configured
type fakeFunctions struct {
	email      *external.GenerateEmailResponse
	receipt    *external.AnalyzeReceiptResponse
	insights   *external.FinancialInsightsResponse
	reminderOK bool
	reminders  []external.SendReminderEmailRequest
}

func (f *fakeFunctions) GenerateEmail(context.Context, external.GenerateEmailRequest) (*external.GenerateEmailResponse, error) {
	if f.email == nil {
		return nil, external.ErrFunctionsDisabled
	}
	return f.email, nil
}

func (f *fakeFunctions) AnalyzeReceipt(context.Context, external.AnalyzeReceiptRequest) (*external.AnalyzeReceiptResponse, error) {
	if f.receipt == nil {
		return nil, external.ErrFunctionsDisabled
	}
	return f.receipt, nil
}

func (f *fakeFunctions) FinancialInsights(context.Context, external.FinancialInsightsRequest) (*external.FinancialInsightsResponse, error) {
	if f.insights == nil {
		return nil, external.ErrFunctionsDisabled
	}
	return f.insights, nil
}

func (f *fakeFunctions) SendReminderEmail(_ context.Context, req external.SendReminderEmailRequest) error {
	if !f.reminderOK {
		return external.ErrFunctionsDisabled
	}
	f.reminders = append(f.reminders, req)
	return nil
}

type fakeMailer struct {
	sent []string
	err  error
}

func (f *fakeMailer) Send(to, subject, htmlBody string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, to)
	return nil
}

type fakeObjectStore struct {
	keys []string
}

func (f *fakeObjectStore) Upload(_ context.Context, key string, r io.Reader, size int64, contentType string) (string, error) {
	if _, err := io.Copy(io.Discard, r); err != nil {
		return "", err
	}
	f.keys = append(f.keys, key)
	return "https://cdn.example.com/" + key, nil
}

type fakeIndex struct {
	err     error
	indexed []int64
}

func (f *fakeIndex) Search(context.Context, models.EventFilter) ([]models.Event, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []models.Event{{ID: 999, Title: "from index"}}, nil
}

func (f *fakeIndex) IndexEvent(_ context.Context, event *models.Event) error {
	f.indexed = append(f.indexed, event.ID)
	return nil
}

type fakeEventCache struct {
	events map[int64]*models.Event
}

func (f *fakeEventCache) GetEvent(_ context.Context, id int64) (*models.Event, error) {
	e, ok := f.events[id]
	if !ok {
		return nil, nil
	}
	cp := *e
	return &cp, nil
}

func (f *fakeEventCache) SetEvent(_ context.Context, event *models.Event) error {
	cp := *event
	f.events[event.ID] = &cp
	return nil
}

func (f *fakeEventCache) DeleteEvent(_ context.Context, id int64) error {
	delete(f.events, id)
	return nil
}
