// Package testutil provides an in-process fake of the KTRN REST backend
// for exercising the client and services over real HTTP.
package testutil

import (
	"fmt"
	"net"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"ktrn/internal/models"
)

const signingKey = "testutil-signing-key"

// Backend is a loopback HTTP server speaking the backend's wire
// protocol against in-memory state. All exported state fields are
// guarded by Mu; tests mutate them directly between requests.
type Backend struct {
	app  *fiber.App
	addr string

	Mu        sync.Mutex
	Users     []models.User
	Sites     []models.Site
	Requests  []models.KeyRequest
	Outsiders []models.OutsiderRequest

	// Calls records every request line ("METHOD /path") in arrival
	// order, so tests can pin the exact routes the client hits.
	Calls []string

	passwords map[string]string // login identifier -> password
	delays    map[string]time.Duration
	failures  map[string]failure

	nextID uint
}

type failure struct {
	status  int
	message string
}

// NewBackend starts a fake backend on a loopback listener and registers
// its shutdown with t.Cleanup. BaseURL points a Client at it.
func NewBackend(t *testing.T) *Backend {
	t.Helper()

	b := &Backend{
		passwords: map[string]string{},
		delays:    map[string]time.Duration{},
		failures:  map[string]failure{},
		nextID:    100,
	}
	b.app = fiber.New(fiber.Config{DisableStartupMessage: true})
	b.routes()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	b.addr = ln.Addr().String()

	go func() {
		_ = b.app.Listener(ln)
	}()
	t.Cleanup(func() {
		_ = b.app.Shutdown()
	})

	// The listener is bound, but wait until fiber is accepting.
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		conn, err := net.Dial("tcp", b.addr)
		if err == nil {
			conn.Close()
			return b
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("fake backend never came up on %s", b.addr)
	return nil
}

// BaseURL is the address to configure the client with.
func (b *Backend) BaseURL() string {
	return "http://" + b.addr
}

// SeedUser registers an account and its login password. The identifier
// may be the username or the email; both are accepted at login.
func (b *Backend) SeedUser(u models.User, password string) {
	b.Mu.Lock()
	defer b.Mu.Unlock()
	b.Users = append(b.Users, u)
	b.passwords[u.Username] = password
	if u.Email != "" {
		b.passwords[u.Email] = password
	}
}

// NextID hands out a fresh record ID.
func (b *Backend) NextID() uint {
	b.Mu.Lock()
	defer b.Mu.Unlock()
	b.nextID++
	return b.nextID
}

// FailWith makes the next matching call (e.g. "GET /requests/all")
// answer with the given status.
func (b *Backend) FailWith(call string, status int, message string) {
	b.Mu.Lock()
	defer b.Mu.Unlock()
	b.failures[call] = failure{status: status, message: message}
}

// DelayFor makes the named call sleep before answering. Used to pin
// down stale-response handling in the console.
func (b *Backend) DelayFor(call string, d time.Duration) {
	b.Mu.Lock()
	defer b.Mu.Unlock()
	b.delays[call] = d
}

// Token mints a bearer token the way the real backend does, expiring
// an hour out.
func Token(t *testing.T, userID uint) string {
	t.Helper()
	claims := jwt.MapClaims{
		"sub": fmt.Sprint(userID),
		"exp": time.Now().Add(time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(signingKey))
	if err != nil {
		t.Fatalf("signing token: %v", err)
	}
	return token
}

// ExpiredToken mints a token whose expiry is already past.
func ExpiredToken(t *testing.T, userID uint) string {
	t.Helper()
	claims := jwt.MapClaims{
		"sub": fmt.Sprint(userID),
		"exp": time.Now().Add(-time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(signingKey))
	if err != nil {
		t.Fatalf("signing token: %v", err)
	}
	return token
}

func (b *Backend) routes() {
	b.app.Use(b.intercept)

	b.app.Post("/login", b.handleLogin)

	b.app.Get("/public/active-sites", b.handleActiveSites)
	b.app.Post("/public/requests", b.handlePublicRequest)

	auth := b.app.Group("/", b.requireToken)

	auth.Get("/users", b.handleListUsers)
	auth.Post("/users", b.handleCreateUser)
	auth.Put("/users/:id", b.handleUpdateUser)
	auth.Delete("/users/:id", b.handleDeleteUser)

	auth.Get("/sites", b.handleListSites)
	auth.Post("/sites", b.handleCreateSite)
	auth.Put("/sites/:id", b.handleUpdateSite)
	auth.Delete("/sites/:id", b.handleDeleteSite)

	auth.Get("/requests/all", b.handleListRequests)
	auth.Get("/requests/user-requests/:userId", b.handleUserRequests)
	auth.Post("/requests", b.handleCreateRequest)
	auth.Put("/requests/update-status/:id", b.handleUpdateStatus)
	auth.Delete("/requests/:id", b.handleDeleteRequest)

	auth.Get("/admin/outsider-requests", b.handleListOutsiders)
	auth.Put("/admin/outsider-requests/:id/status", b.handleOutsiderStatus)

	auth.Get("/dashboard/total-requests", b.handleTotalRequests)
	auth.Get("/dashboard/approved-requests", b.handleApprovedRequests)
	auth.Get("/dashboard/best-performing-site", b.handleBestSite)
	auth.Get("/dashboard/most-active-user", b.handleMostActiveUser)
	auth.Get("/dashboard/request-distribution", b.handleDistribution)
	auth.Get("/dashboard/status-breakdown", b.handleStatusBreakdown)
	auth.Get("/dashboard/popular-request-time", b.handlePopularTime)
	auth.Get("/dashboard/request-trends", b.handleTrends)

	auth.Get("/report", b.handleReport)
}

// intercept applies injected delays and failures keyed by "METHOD path".
func (b *Backend) intercept(c *fiber.Ctx) error {
	call := c.Method() + " " + c.Path()

	b.Mu.Lock()
	b.Calls = append(b.Calls, call)
	delay := b.delays[call]
	fail, failing := b.failures[call]
	if failing {
		delete(b.failures, call)
	}
	b.Mu.Unlock()

	if delay > 0 {
		time.Sleep(delay)
	}
	if failing {
		return c.Status(fail.status).JSON(fiber.Map{"error": fail.message})
	}
	return c.Next()
}

func (b *Backend) requireToken(c *fiber.Ctx) error {
	header := c.Get("Authorization")
	if len(header) < 8 || header[:7] != "Bearer " {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Missing token"})
	}
	return c.Next()
}

func (b *Backend) handleLogin(c *fiber.Ctx) error {
	var in struct {
		Identifier string `json:"identifier"`
		Password   string `json:"password"`
	}
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid body"})
	}

	b.Mu.Lock()
	defer b.Mu.Unlock()
	if b.passwords[in.Identifier] != in.Password || in.Password == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid credentials"})
	}
	for _, u := range b.Users {
		if u.Username == in.Identifier || u.Email == in.Identifier {
			claims := jwt.MapClaims{
				"sub": fmt.Sprint(u.ID),
				"exp": time.Now().Add(time.Hour).Unix(),
			}
			token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(signingKey))
			if err != nil {
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "token"})
			}
			return c.JSON(fiber.Map{"token": token, "role": u.Role, "userId": u.ID})
		}
	}
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid credentials"})
}

func (b *Backend) handleActiveSites(c *fiber.Ctx) error {
	b.Mu.Lock()
	defer b.Mu.Unlock()
	active := []models.Site{}
	for _, s := range b.Sites {
		if s.Status == models.SiteActive {
			active = append(active, s)
		}
	}
	return c.JSON(active)
}

func (b *Backend) handlePublicRequest(c *fiber.Ctx) error {
	var in struct {
		Name          string `json:"name"`
		Email         string `json:"email"`
		Phone         string `json:"phone"`
		PartnerName   string `json:"partner_name"`
		SiteID        uint   `json:"site_id"`
		Reason        string `json:"reason"`
		RequestedTime string `json:"requested_time"`
	}
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid body"})
	}

	b.Mu.Lock()
	defer b.Mu.Unlock()
	b.nextID++
	b.Outsiders = append(b.Outsiders, models.OutsiderRequest{
		ID:            b.nextID,
		Name:          in.Name,
		Email:         in.Email,
		Phone:         in.Phone,
		PartnerName:   in.PartnerName,
		SiteID:        in.SiteID,
		SiteName:      b.siteName(in.SiteID),
		Reason:        in.Reason,
		RequestedTime: parseTime(in.RequestedTime),
		Status:        models.StatusPending,
	})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Request submitted successfully."})
}

func (b *Backend) siteName(id uint) string {
	for _, s := range b.Sites {
		if s.ID == id {
			return s.Name
		}
	}
	return ""
}

func parseTime(s string) time.Time {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

func param(c *fiber.Ctx, name string) (uint, error) {
	n, err := strconv.ParseUint(c.Params(name), 10, 32)
	return uint(n), err
}

func (b *Backend) handleListUsers(c *fiber.Ctx) error {
	b.Mu.Lock()
	defer b.Mu.Unlock()
	return c.JSON(b.Users)
}

func (b *Backend) handleCreateUser(c *fiber.Ctx) error {
	var in struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Role     string `json:"role"`
	}
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid body"})
	}

	b.Mu.Lock()
	defer b.Mu.Unlock()
	b.nextID++
	user := models.User{ID: b.nextID, Username: in.Username, Email: in.Email, Role: in.Role}
	b.Users = append(b.Users, user)
	b.passwords[in.Username] = in.Password
	if in.Email != "" {
		b.passwords[in.Email] = in.Password
	}
	return c.Status(fiber.StatusCreated).JSON(user)
}

func (b *Backend) handleUpdateUser(c *fiber.Ctx) error {
	id, err := param(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid id"})
	}
	var in struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Role     string `json:"role"`
	}
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid body"})
	}

	b.Mu.Lock()
	defer b.Mu.Unlock()
	for i := range b.Users {
		if b.Users[i].ID == id {
			b.Users[i].Username = in.Username
			b.Users[i].Email = in.Email
			b.Users[i].Role = in.Role
			return c.JSON(b.Users[i])
		}
	}
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
}

func (b *Backend) handleDeleteUser(c *fiber.Ctx) error {
	id, err := param(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid id"})
	}

	b.Mu.Lock()
	defer b.Mu.Unlock()
	for i := range b.Users {
		if b.Users[i].ID == id {
			b.Users = append(b.Users[:i], b.Users[i+1:]...)
			return c.JSON(fiber.Map{"message": "User deleted"})
		}
	}
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
}

func (b *Backend) handleListSites(c *fiber.Ctx) error {
	b.Mu.Lock()
	defer b.Mu.Unlock()
	return c.JSON(b.Sites)
}

func (b *Backend) handleCreateSite(c *fiber.Ctx) error {
	var in models.Site
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid body"})
	}

	b.Mu.Lock()
	defer b.Mu.Unlock()
	b.nextID++
	in.ID = b.nextID
	b.Sites = append(b.Sites, in)
	return c.Status(fiber.StatusCreated).JSON(in)
}

func (b *Backend) handleUpdateSite(c *fiber.Ctx) error {
	id, err := param(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid id"})
	}
	var in models.Site
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid body"})
	}

	b.Mu.Lock()
	defer b.Mu.Unlock()
	for i := range b.Sites {
		if b.Sites[i].ID == id {
			b.Sites[i].Name = in.Name
			b.Sites[i].Location = in.Location
			b.Sites[i].Status = in.Status
			return c.JSON(b.Sites[i])
		}
	}
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Site not found"})
}

func (b *Backend) handleDeleteSite(c *fiber.Ctx) error {
	id, err := param(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid id"})
	}

	b.Mu.Lock()
	defer b.Mu.Unlock()
	for i := range b.Sites {
		if b.Sites[i].ID == id {
			b.Sites = append(b.Sites[:i], b.Sites[i+1:]...)
			return c.JSON(fiber.Map{"message": "Site deleted"})
		}
	}
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Site not found"})
}

func (b *Backend) handleListRequests(c *fiber.Ctx) error {
	b.Mu.Lock()
	defer b.Mu.Unlock()
	return c.JSON(b.Requests)
}

func (b *Backend) handleUserRequests(c *fiber.Ctx) error {
	userID, err := param(c, "userId")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid id"})
	}

	b.Mu.Lock()
	defer b.Mu.Unlock()
	mine := []models.KeyRequest{}
	for _, r := range b.Requests {
		if r.UserID == userID {
			mine = append(mine, r)
		}
	}
	return c.JSON(mine)
}

func (b *Backend) handleCreateRequest(c *fiber.Ctx) error {
	var in struct {
		UserID        uint      `json:"user_id"`
		SiteID        uint      `json:"site_id"`
		Reason        string    `json:"reason"`
		RequestedTime time.Time `json:"requested_time"`
	}
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid body"})
	}

	b.Mu.Lock()
	defer b.Mu.Unlock()
	b.nextID++
	req := models.KeyRequest{
		ID:            b.nextID,
		UserID:        in.UserID,
		SiteID:        in.SiteID,
		SiteName:      b.siteName(in.SiteID),
		Reason:        in.Reason,
		RequestedTime: in.RequestedTime,
		Status:        models.StatusPending,
	}
	for _, u := range b.Users {
		if u.ID == in.UserID {
			req.Username = u.Username
			req.Email = u.Email
		}
	}
	b.Requests = append(b.Requests, req)
	return c.Status(fiber.StatusCreated).JSON(req)
}

func (b *Backend) handleUpdateStatus(c *fiber.Ctx) error {
	id, err := param(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid id"})
	}
	var in struct {
		Status models.RequestStatus `json:"status"`
	}
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid body"})
	}

	b.Mu.Lock()
	defer b.Mu.Unlock()
	for i := range b.Requests {
		if b.Requests[i].ID == id {
			b.Requests[i].Status = in.Status
			return c.JSON(b.Requests[i])
		}
	}
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Request not found"})
}

func (b *Backend) handleDeleteRequest(c *fiber.Ctx) error {
	id, err := param(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid id"})
	}

	b.Mu.Lock()
	defer b.Mu.Unlock()
	for i := range b.Requests {
		if b.Requests[i].ID == id {
			b.Requests = append(b.Requests[:i], b.Requests[i+1:]...)
			return c.JSON(fiber.Map{"message": "Request deleted"})
		}
	}
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Request not found"})
}

func (b *Backend) handleListOutsiders(c *fiber.Ctx) error {
	b.Mu.Lock()
	defer b.Mu.Unlock()
	return c.JSON(b.Outsiders)
}

func (b *Backend) handleOutsiderStatus(c *fiber.Ctx) error {
	id, err := param(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid id"})
	}
	var in struct {
		Status models.RequestStatus `json:"status"`
	}
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid body"})
	}

	b.Mu.Lock()
	defer b.Mu.Unlock()
	for i := range b.Outsiders {
		if b.Outsiders[i].ID == id {
			b.Outsiders[i].Status = in.Status
			return c.JSON(b.Outsiders[i])
		}
	}
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Request not found"})
}

func (b *Backend) handleTotalRequests(c *fiber.Ctx) error {
	b.Mu.Lock()
	defer b.Mu.Unlock()
	return c.JSON(fiber.Map{"total_requests": len(b.Requests)})
}

func (b *Backend) handleApprovedRequests(c *fiber.Ctx) error {
	b.Mu.Lock()
	defer b.Mu.Unlock()
	approved := 0
	for _, r := range b.Requests {
		if r.Status == models.StatusApproved {
			approved++
		}
	}
	return c.JSON(fiber.Map{"approved_requests": approved})
}

func (b *Backend) handleBestSite(c *fiber.Ctx) error {
	counts := b.siteCounts()
	best := struct {
		Name  string
		Total int
	}{}
	for name, total := range counts {
		if total > best.Total {
			best.Name, best.Total = name, total
		}
	}
	return c.JSON(fiber.Map{"site_name": best.Name, "total_requests": best.Total})
}

func (b *Backend) handleMostActiveUser(c *fiber.Ctx) error {
	b.Mu.Lock()
	defer b.Mu.Unlock()
	counts := map[string]int{}
	for _, r := range b.Requests {
		counts[r.Username]++
	}
	best := struct {
		Name  string
		Total int
	}{}
	for name, total := range counts {
		if total > best.Total {
			best.Name, best.Total = name, total
		}
	}
	return c.JSON(fiber.Map{"username": best.Name, "total_requests": best.Total})
}

func (b *Backend) siteCounts() map[string]int {
	b.Mu.Lock()
	defer b.Mu.Unlock()
	counts := map[string]int{}
	for _, r := range b.Requests {
		counts[r.SiteName]++
	}
	return counts
}

func (b *Backend) handleDistribution(c *fiber.Ctx) error {
	counts := b.siteCounts()
	out := []fiber.Map{}
	for name, total := range counts {
		out = append(out, fiber.Map{"site_name": name, "total_requests": total})
	}
	return c.JSON(out)
}

func (b *Backend) handleStatusBreakdown(c *fiber.Ctx) error {
	b.Mu.Lock()
	defer b.Mu.Unlock()
	counts := map[models.RequestStatus]int{}
	for _, r := range b.Requests {
		counts[r.Status]++
	}
	out := []fiber.Map{}
	for status, total := range counts {
		out = append(out, fiber.Map{"status": status, "total_requests": total})
	}
	return c.JSON(out)
}

func (b *Backend) handlePopularTime(c *fiber.Ctx) error {
	b.Mu.Lock()
	defer b.Mu.Unlock()
	counts := map[int]int{}
	for _, r := range b.Requests {
		counts[r.SubmittedAt().Hour()]++
	}
	best := struct {
		Hour  int
		Total int
	}{}
	for hour, total := range counts {
		if total > best.Total {
			best.Hour, best.Total = hour, total
		}
	}
	return c.JSON(fiber.Map{"request_hour": best.Hour, "total_requests": best.Total})
}

func (b *Backend) handleTrends(c *fiber.Ctx) error {
	b.Mu.Lock()
	defer b.Mu.Unlock()
	counts := map[string]int{}
	for _, r := range b.Requests {
		counts[r.SubmittedAt().Format("2006-01-02")]++
	}
	out := []fiber.Map{}
	for date, total := range counts {
		out = append(out, fiber.Map{"request_date": date, "total_requests": total})
	}
	return c.JSON(out)
}

func (b *Backend) handleReport(c *fiber.Ctx) error {
	status := c.Query("status")

	b.Mu.Lock()
	defer b.Mu.Unlock()

	rows := []fiber.Map{}
	total, approved := 0, 0
	siteCounts := map[string]int{}
	partnerCounts := map[string]int{}
	statusCounts := map[models.RequestStatus]int{}
	for _, r := range b.Requests {
		if status != "" && string(r.Status) != status {
			continue
		}
		total++
		if r.Status == models.StatusApproved {
			approved++
		}
		siteCounts[r.SiteName]++
		partnerCounts[r.PartnerName]++
		statusCounts[r.Status]++
		rows = append(rows, fiber.Map{
			"username":       r.Username,
			"email":          r.Email,
			"site_name":      r.SiteName,
			"partner_name":   r.PartnerName,
			"status":         string(r.Status),
			"requested_time": r.SubmittedAt().Format(time.RFC3339),
		})
	}

	bestSite := fiber.Map{"site_name": "", "total_requests": 0}
	for name, n := range siteCounts {
		if n > bestSite["total_requests"].(int) {
			bestSite = fiber.Map{"site_name": name, "total_requests": n}
		}
	}
	bestPartner := fiber.Map{"partner_name": "", "total_requests": 0}
	for name, n := range partnerCounts {
		if n > bestPartner["total_requests"].(int) {
			bestPartner = fiber.Map{"partner_name": name, "total_requests": n}
		}
	}
	distribution := []fiber.Map{}
	for name, n := range siteCounts {
		distribution = append(distribution, fiber.Map{"site_name": name, "total_requests": n})
	}
	breakdown := []fiber.Map{}
	for s, n := range statusCounts {
		breakdown = append(breakdown, fiber.Map{"status": s, "total_requests": n})
	}

	return c.JSON(fiber.Map{
		"totalRequests":       total,
		"approvedRequests":    approved,
		"bestPerformingSite":  bestSite,
		"bestPartner":         bestPartner,
		"requestDistribution": distribution,
		"statusBreakdown":     breakdown,
		"userDetails":         rows,
	})
}
