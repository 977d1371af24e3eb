package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pichanga-app/pichanga-backend/models"
	"github.com/pichanga-app/pichanga-backend/provider"
	"github.com/pichanga-app/pichanga-backend/repositories"
)

// fakeTxManager serializes transactions with a mutex, modeling the row
// lock the real implementation takes on the match and payment rows.
type fakeTxManager struct {
	mu sync.Mutex
}

func (m *fakeTxManager) WithinTx(ctx context.Context, fn func(exec repositories.SQLExecutor) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn(nil)
}

// --- matches ---

type fakeMatchRepo struct {
	mu      sync.Mutex
	matches map[int]*models.Match

	// recorded arguments of the last board queries
	lastExclude   *int
	enrolledCalls int
}

func newFakeMatchRepo(matches ...*models.Match) *fakeMatchRepo {
	r := &fakeMatchRepo{matches: make(map[int]*models.Match)}
	for _, m := range matches {
		r.matches[m.ID] = m
	}
	return r
}

func (r *fakeMatchRepo) GetByID(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Match, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.matches[id]
	if !ok {
		return nil, repositories.ErrMatchNotFound
	}
	copied := *m
	return &copied, nil
}

func (r *fakeMatchRepo) GetByIdentifier(ctx context.Context, exec repositories.SQLExecutor, identifier uuid.UUID) (*models.Match, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.matches {
		if m.Identifier == identifier {
			copied := *m
			return &copied, nil
		}
	}
	return nil, repositories.ErrMatchNotFound
}

func (r *fakeMatchRepo) LockByID(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Match, error) {
	return r.GetByID(ctx, exec, id)
}

func (r *fakeMatchRepo) ListUpcomingPublished(ctx context.Context, exec repositories.SQLExecutor, now time.Time, excludeUserID *int) ([]*models.Match, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastExclude = excludeUserID
	out := make([]*models.Match, 0)
	for _, m := range r.matches {
		if m.Status == models.MatchStatusPublished && m.StartAt.After(now) {
			copied := *m
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeMatchRepo) ListEnrolledByUser(ctx context.Context, exec repositories.SQLExecutor, userID int, now time.Time, upcoming bool) ([]*models.Match, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.enrolledCalls++
	return make([]*models.Match, 0), nil
}

func (r *fakeMatchRepo) UpdateStatus(ctx context.Context, exec repositories.SQLExecutor, id int, status models.MatchStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.matches[id]
	if !ok {
		return repositories.ErrMatchNotFound
	}
	m.Status = status
	return nil
}

func (r *fakeMatchRepo) ListPublishedEndedBefore(ctx context.Context, exec repositories.SQLExecutor, cutoff time.Time) ([]*models.Match, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.Match, 0)
	for _, m := range r.matches {
		end := m.StartAt.Add(time.Duration(m.DurationMinutes) * time.Minute)
		if m.Status == models.MatchStatusPublished && !end.After(cutoff) {
			copied := *m
			out = append(out, &copied)
		}
	}
	return out, nil
}

// --- enrollments ---

type fakeEnrollmentRepo struct {
	mu     sync.Mutex
	nextID int
	rows   map[string]*models.Enrollment
}

func newFakeEnrollmentRepo() *fakeEnrollmentRepo {
	return &fakeEnrollmentRepo{rows: make(map[string]*models.Enrollment), nextID: 1}
}

func enrollmentKey(matchID, userID int) string {
	return fmt.Sprintf("%d/%d", matchID, userID)
}

func (r *fakeEnrollmentRepo) Create(ctx context.Context, exec repositories.SQLExecutor, e *models.Enrollment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := enrollmentKey(e.MatchID, e.UserID)
	if _, exists := r.rows[key]; exists {
		return repositories.ErrEnrollmentConflict
	}
	e.ID = r.nextID
	r.nextID++
	e.CreatedAt = time.Now()
	copied := *e
	r.rows[key] = &copied
	return nil
}

func (r *fakeEnrollmentRepo) FindByMatchAndUser(ctx context.Context, exec repositories.SQLExecutor, matchID, userID int) (*models.Enrollment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.rows[enrollmentKey(matchID, userID)]
	if !ok {
		return nil, repositories.ErrEnrollmentNotFound
	}
	copied := *e
	return &copied, nil
}

func (r *fakeEnrollmentRepo) ExistsActive(ctx context.Context, exec repositories.SQLExecutor, matchID, userID int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.rows[enrollmentKey(matchID, userID)]
	return ok && e.IsActive, nil
}

func (r *fakeEnrollmentRepo) CountActiveByMatch(ctx context.Context, exec repositories.SQLExecutor, matchID int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, e := range r.rows {
		if e.MatchID == matchID && e.IsActive {
			count++
		}
	}
	return count, nil
}

func (r *fakeEnrollmentRepo) Activate(ctx context.Context, exec repositories.SQLExecutor, id int, joinedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.rows {
		if e.ID == id {
			e.IsActive = true
			e.JoinedAt = &joinedAt
			e.CancelledAt = nil
			return nil
		}
	}
	return repositories.ErrEnrollmentNotFound
}

func (r *fakeEnrollmentRepo) Deactivate(ctx context.Context, exec repositories.SQLExecutor, id int, cancelledAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.rows {
		if e.ID == id {
			e.IsActive = false
			e.CancelledAt = &cancelledAt
			return nil
		}
	}
	return repositories.ErrEnrollmentNotFound
}

func (r *fakeEnrollmentRepo) ListActivePlayers(ctx context.Context, exec repositories.SQLExecutor, matchID int) ([]*models.User, error) {
	return nil, nil
}

// --- payments ---

type fakePaymentRepo struct {
	mu     sync.Mutex
	nextID int
	rows   []*models.Payment
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{nextID: 1}
}

func (r *fakePaymentRepo) Create(ctx context.Context, exec repositories.SQLExecutor, p *models.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p.Status == models.PaymentStatusPending {
		for _, existing := range r.rows {
			if existing.UserID == p.UserID && existing.MatchID == p.MatchID &&
				existing.Status == models.PaymentStatusPending {
				return repositories.ErrPaymentPendingConflict
			}
		}
	}
	p.ID = r.nextID
	r.nextID++
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	copied := *p
	r.rows = append(r.rows, &copied)
	return nil
}

func (r *fakePaymentRepo) GetByPublicID(ctx context.Context, exec repositories.SQLExecutor, publicID uuid.UUID) (*models.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.rows {
		if p.PublicID == publicID {
			copied := *p
			return &copied, nil
		}
	}
	return nil, repositories.ErrPaymentNotFound
}

func (r *fakePaymentRepo) FindPendingByUserAndMatch(ctx context.Context, exec repositories.SQLExecutor, userID, matchID int) (*models.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.rows) - 1; i >= 0; i-- {
		p := r.rows[i]
		if p.UserID == userID && p.MatchID == matchID && p.Status == models.PaymentStatusPending {
			copied := *p
			return &copied, nil
		}
	}
	return nil, repositories.ErrPaymentNotFound
}

func (r *fakePaymentRepo) LockByExternalReference(ctx context.Context, exec repositories.SQLExecutor, externalReference string) (*models.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.rows {
		if p.ExternalReference == externalReference {
			copied := *p
			return &copied, nil
		}
	}
	return nil, repositories.ErrPaymentNotFound
}

func (r *fakePaymentRepo) ExistsApproved(ctx context.Context, exec repositories.SQLExecutor, userID, matchID int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.rows {
		if p.UserID == userID && p.MatchID == matchID && p.Status == models.PaymentStatusApproved {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakePaymentRepo) UpdatePreference(ctx context.Context, exec repositories.SQLExecutor, id int, preferenceID, initPoint, sandboxInitPoint string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.rows {
		if p.ID == id {
			p.PreferenceID = preferenceID
			p.InitPoint = initPoint
			p.SandboxInitPoint = sandboxInitPoint
			return nil
		}
	}
	return repositories.ErrPaymentNotFound
}

func (r *fakePaymentRepo) UpdateProviderFields(ctx context.Context, exec repositories.SQLExecutor, id int, mpPaymentID, mpStatus string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.rows {
		if p.ID == id {
			p.MPPaymentID = mpPaymentID
			p.MPStatus = mpStatus
			return nil
		}
	}
	return repositories.ErrPaymentNotFound
}

func (r *fakePaymentRepo) UpdateStatus(ctx context.Context, exec repositories.SQLExecutor, id int, status models.PaymentStatus, mpPaymentID, mpStatus string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.rows {
		if p.ID == id {
			p.Status = status
			p.MPPaymentID = mpPaymentID
			p.MPStatus = mpStatus
			return nil
		}
	}
	return repositories.ErrPaymentNotFound
}

func (r *fakePaymentRepo) get(id int) *models.Payment {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.rows {
		if p.ID == id {
			copied := *p
			return &copied
		}
	}
	return nil
}

// --- users ---

type fakeUserRepo struct {
	mu     sync.Mutex
	nextID int
	users  map[int]*models.User
}

func newFakeUserRepo(users ...*models.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[int]*models.User), nextID: 1}
	for _, u := range users {
		r.users[u.ID] = u
		if u.ID >= r.nextID {
			r.nextID = u.ID + 1
		}
	}
	return r
}

func (r *fakeUserRepo) Create(ctx context.Context, exec repositories.SQLExecutor, u *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return repositories.ErrUserEmailConflict
		}
		if existing.DocumentType == u.DocumentType && existing.DocumentNumber == u.DocumentNumber {
			return repositories.ErrUserDocumentConflict
		}
	}
	u.ID = r.nextID
	r.nextID++
	u.IsActive = true
	if u.Role == "" {
		u.Role = models.RolePlayer
	}
	u.CreatedAt = time.Now()
	copied := *u
	r.users[u.ID] = &copied
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	copied := *u
	return &copied, nil
}

func (r *fakeUserRepo) GetByDocument(ctx context.Context, exec repositories.SQLExecutor, documentType, documentNumber string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.DocumentType == documentType && u.DocumentNumber == documentNumber {
			copied := *u
			return &copied, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r *fakeUserRepo) UpdateProfile(ctx context.Context, exec repositories.SQLExecutor, u *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.users[u.ID]
	if !ok {
		return repositories.ErrUserNotFound
	}
	existing.FirstName = u.FirstName
	existing.LastName = u.LastName
	existing.Phone = u.Phone
	return nil
}

func (r *fakeUserRepo) UpdatePassword(ctx context.Context, exec repositories.SQLExecutor, id int, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return repositories.ErrUserNotFound
	}
	u.PasswordHash = passwordHash
	return nil
}

func (r *fakeUserRepo) UpdatePhoto(ctx context.Context, exec repositories.SQLExecutor, id int, photoURL *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return repositories.ErrUserNotFound
	}
	u.PhotoURL = photoURL
	return nil
}

func (r *fakeUserRepo) SetTeam(ctx context.Context, exec repositories.SQLExecutor, id int, teamID *int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return repositories.ErrUserNotFound
	}
	u.TeamID = teamID
	return nil
}

func (r *fakeUserRepo) SetActive(ctx context.Context, exec repositories.SQLExecutor, id int, isActive bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return repositories.ErrUserNotFound
	}
	u.IsActive = isActive
	return nil
}

// --- sessions ---

type fakeSessionRepo struct {
	mu     sync.Mutex
	nextID int
	rows   map[string]*models.SessionToken // keyed user/device
	users  map[int]*models.User
}

func newFakeSessionRepo(users ...*models.User) *fakeSessionRepo {
	r := &fakeSessionRepo{
		rows:   make(map[string]*models.SessionToken),
		users:  make(map[int]*models.User),
		nextID: 1,
	}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func sessionKey(userID int, deviceID string) string {
	return fmt.Sprintf("%d/%s", userID, deviceID)
}

func (r *fakeSessionRepo) Upsert(ctx context.Context, exec repositories.SQLExecutor, s *models.SessionToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := sessionKey(s.UserID, s.DeviceID)
	now := time.Now()
	if existing, ok := r.rows[key]; ok {
		existing.Token = s.Token
		existing.IPAddress = s.IPAddress
		existing.UserAgent = s.UserAgent
		existing.LastSeen = now
		s.ID = existing.ID
		s.CreatedAt = existing.CreatedAt
		s.LastSeen = now
		return nil
	}
	s.ID = r.nextID
	r.nextID++
	s.CreatedAt = now
	s.LastSeen = now
	copied := *s
	r.rows[key] = &copied
	return nil
}

func (r *fakeSessionRepo) GetByToken(ctx context.Context, exec repositories.SQLExecutor, token string) (*models.SessionToken, *models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.rows {
		if s.Token == token {
			u, ok := r.users[s.UserID]
			if !ok {
				return nil, nil, repositories.ErrSessionNotFound
			}
			sc, uc := *s, *u
			return &sc, &uc, nil
		}
	}
	return nil, nil, repositories.ErrSessionNotFound
}

func (r *fakeSessionRepo) TouchLastSeen(ctx context.Context, exec repositories.SQLExecutor, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.rows {
		if s.ID == id {
			s.LastSeen = time.Now()
			return nil
		}
	}
	return repositories.ErrSessionNotFound
}

func (r *fakeSessionRepo) DeleteByUserAndToken(ctx context.Context, exec repositories.SQLExecutor, userID int, token string) (*models.SessionToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for key, s := range r.rows {
		if s.UserID == userID && s.Token == token {
			delete(r.rows, key)
			copied := *s
			return &copied, nil
		}
	}
	return nil, repositories.ErrSessionNotFound
}

func (r *fakeSessionRepo) ListByUser(ctx context.Context, exec repositories.SQLExecutor, userID int) ([]*models.SessionToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.SessionToken, 0)
	for _, s := range r.rows {
		if s.UserID == userID {
			copied := *s
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeSessionRepo) DeleteAllByUser(ctx context.Context, exec repositories.SQLExecutor, userID int) ([]*models.SessionToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	deleted := make([]*models.SessionToken, 0)
	for key, s := range r.rows {
		if s.UserID == userID {
			delete(r.rows, key)
			copied := *s
			deleted = append(deleted, &copied)
		}
	}
	return deleted, nil
}

// --- stats ---

type fakeStatRepo struct {
	mu   sync.Mutex
	rows map[string]*models.PlayerMatchStat
}

func newFakeStatRepo() *fakeStatRepo {
	return &fakeStatRepo{rows: make(map[string]*models.PlayerMatchStat)}
}

func statKey(userID, matchID int) string {
	return fmt.Sprintf("%d/%d", userID, matchID)
}

func (r *fakeStatRepo) EnsureExists(ctx context.Context, exec repositories.SQLExecutor, userID, matchID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := statKey(userID, matchID)
	if _, ok := r.rows[key]; !ok {
		r.rows[key] = &models.PlayerMatchStat{
			UserID:   userID,
			MatchID:  matchID,
			IsWinner: models.WinnerUnknown,
		}
	}
	return nil
}

func (r *fakeStatRepo) DeleteByMatchAndUser(ctx context.Context, exec repositories.SQLExecutor, matchID, userID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.rows, statKey(userID, matchID))
	return nil
}

func (r *fakeStatRepo) UpdateResult(ctx context.Context, exec repositories.SQLExecutor, userID, matchID int, goals int, isWinner models.WinnerResult, isMVP bool, notes string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.rows[statKey(userID, matchID)]
	if !ok {
		return repositories.ErrStatNotFound
	}
	s.Goals = goals
	s.IsWinner = isWinner
	s.IsMVP = isMVP
	s.Notes = notes
	return nil
}

func (r *fakeStatRepo) ListByUser(ctx context.Context, exec repositories.SQLExecutor, userID int) ([]*models.PlayerMatchStat, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.PlayerMatchStat, 0)
	for _, s := range r.rows {
		if s.UserID == userID {
			copied := *s
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeStatRepo) SummaryByUser(ctx context.Context, exec repositories.SQLExecutor, userID int) (*models.StatsSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	summary := &models.StatsSummary{}
	for _, s := range r.rows {
		if s.UserID != userID {
			continue
		}
		summary.MatchesPlayed++
		summary.TotalGoals += s.Goals
		if s.IsWinner == models.WinnerWon {
			summary.Wins++
		}
		if s.IsMVP {
			summary.MVPCount++
		}
	}
	return summary, nil
}

func (r *fakeStatRepo) has(userID, matchID int) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.rows[statKey(userID, matchID)]
	return ok
}

// --- teams and memberships ---

type fakeTeamRepo struct {
	teams map[int]*models.Team
}

func newFakeTeamRepo(teams ...*models.Team) *fakeTeamRepo {
	r := &fakeTeamRepo{teams: make(map[int]*models.Team)}
	for _, t := range teams {
		r.teams[t.ID] = t
	}
	return r
}

func (r *fakeTeamRepo) GetByID(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Team, error) {
	t, ok := r.teams[id]
	if !ok {
		return nil, repositories.ErrTeamNotFound
	}
	copied := *t
	return &copied, nil
}

func (r *fakeTeamRepo) ListActive(ctx context.Context, exec repositories.SQLExecutor) ([]*models.Team, error) {
	out := make([]*models.Team, 0)
	for _, t := range r.teams {
		if t.IsActive {
			copied := *t
			out = append(out, &copied)
		}
	}
	return out, nil
}

type fakeMembershipRepo struct {
	mu     sync.Mutex
	nextID int
	rows   []*models.TeamMembership
}

func newFakeMembershipRepo() *fakeMembershipRepo {
	return &fakeMembershipRepo{nextID: 1}
}

func (r *fakeMembershipRepo) Create(ctx context.Context, exec repositories.SQLExecutor, m *models.TeamMembership) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.rows {
		if existing.UserID == m.UserID && existing.DateTo == nil {
			return repositories.ErrMembershipOpenConflict
		}
	}
	m.ID = r.nextID
	r.nextID++
	m.CreatedAt = time.Now()
	copied := *m
	r.rows = append(r.rows, &copied)
	return nil
}

func (r *fakeMembershipRepo) FindOpenByUser(ctx context.Context, exec repositories.SQLExecutor, userID int) (*models.TeamMembership, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.rows {
		if m.UserID == userID && m.DateTo == nil {
			copied := *m
			return &copied, nil
		}
	}
	return nil, repositories.ErrMembershipNotFound
}

func (r *fakeMembershipRepo) CloseOpenForUser(ctx context.Context, exec repositories.SQLExecutor, userID int, dateTo time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	closed := 0
	for _, m := range r.rows {
		if m.UserID == userID && m.DateTo == nil {
			d := dateTo
			m.DateTo = &d
			closed++
		}
	}
	return closed, nil
}

func (r *fakeMembershipRepo) ListByUser(ctx context.Context, exec repositories.SQLExecutor, userID int) ([]*models.TeamMembership, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.TeamMembership, 0)
	for _, m := range r.rows {
		if m.UserID == userID {
			copied := *m
			out = append(out, &copied)
		}
	}
	return out, nil
}

// --- payment provider ---

type fakeProvider struct {
	createPreference func(ctx context.Context, req provider.PreferenceRequest) (*provider.Preference, error)
	getPayment       func(ctx context.Context, paymentID string) (*provider.PaymentInfo, error)
}

func (p *fakeProvider) CreatePreference(ctx context.Context, req provider.PreferenceRequest) (*provider.Preference, error) {
	if p.createPreference != nil {
		return p.createPreference(ctx, req)
	}
	return &provider.Preference{
		ID:               "pref-1",
		InitPoint:        "https://mp.example/init",
		SandboxInitPoint: "https://mp.example/sandbox",
	}, nil
}

func (p *fakeProvider) GetPayment(ctx context.Context, paymentID string) (*provider.PaymentInfo, error) {
	if p.getPayment != nil {
		return p.getPayment(ctx, paymentID)
	}
	return nil, fmt.Errorf("no payment configured for id %s", paymentID)
}

// publishedMatch builds a joinable match starting in the future.
func publishedMatch(id, capacity int) *models.Match {
	return &models.Match{
		ID:              id,
		Identifier:      uuid.New(),
		Title:           "Pichanga de prueba",
		StartAt:         time.Now().Add(24 * time.Hour),
		DurationMinutes: 60,
		Capacity:        capacity,
		PriceAmount:     15,
		PriceCurrency:   "PEN",
		Status:          models.MatchStatusPublished,
	}
}
