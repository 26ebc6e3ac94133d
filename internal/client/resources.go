package client

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/yigit/cyberclub/internal/app/models"
	"github.com/yigit/cyberclub/internal/app/models/dto"
)

// Resource is one content collection under /api/<path>. Reads are public,
// writes need an admin AuthContext.
type Resource[T any] struct {
	c    *Client
	path string
}

// NewResource binds a collection path such as "/posts" to c
func NewResource[T any](c *Client, path string) Resource[T] {
	return Resource[T]{c: c, path: path}
}

// List returns the collection, newest first
func (r Resource[T]) List(ctx context.Context) ([]*T, error) {
	return r.list(ctx, r.path)
}

func (r Resource[T]) list(ctx context.Context, path string) ([]*T, error) {
	var out []*T
	if err := r.c.do(ctx, request{method: http.MethodGet, path: path}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Get returns one item
func (r Resource[T]) Get(ctx context.Context, id string) (*T, error) {
	var out T
	if err := r.c.do(ctx, request{method: http.MethodGet, path: r.itemPath(id)}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Create adds an item
func (r Resource[T]) Create(ctx context.Context, auth AuthContext, p *Payload) (*T, error) {
	var out T
	if err := r.c.do(ctx, request{method: http.MethodPost, path: r.path, auth: &auth, body: p}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Update changes only the fields present in p
func (r Resource[T]) Update(ctx context.Context, auth AuthContext, id string, p *Payload) (*T, error) {
	var out T
	if err := r.c.do(ctx, request{method: http.MethodPut, path: r.itemPath(id), auth: &auth, body: p}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete removes an item
func (r Resource[T]) Delete(ctx context.Context, auth AuthContext, id string) error {
	return r.c.do(ctx, request{method: http.MethodDelete, path: r.itemPath(id), auth: &auth}, nil)
}

func (r Resource[T]) itemPath(id string) string {
	return r.path + "/" + url.PathEscape(id)
}

// Posts returns the posts collection
func (c *Client) Posts() Resource[models.Post] { return NewResource[models.Post](c, "/posts") }

// Events returns the events collection
func (c *Client) Events() Resource[models.Event] { return NewResource[models.Event](c, "/events") }

// Members returns the members collection
func (c *Client) Members() Resource[models.Member] { return NewResource[models.Member](c, "/members") }

// Classes returns the classes collection
func (c *Client) Classes() Resource[models.Class] { return NewResource[models.Class](c, "/classes") }

// CTFs returns the CTF writeups collection
func (c *Client) CTFs() Resource[models.CTF] { return NewResource[models.CTF](c, "/ctfs") }

// LikePost toggles the caller's like on a post
func (c *Client) LikePost(ctx context.Context, auth AuthContext, id string) (*models.Post, error) {
	var out models.Post
	path := "/posts/" + url.PathEscape(id) + "/like"
	if err := c.do(ctx, request{method: http.MethodPost, path: path, auth: &auth}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// EventsByPeriod lists upcoming or past events
func (c *Client) EventsByPeriod(ctx context.Context, when models.EventPeriod) ([]*models.Event, error) {
	events := c.Events()
	return events.list(ctx, events.path+"?when="+url.QueryEscape(string(when)))
}

// Register creates a user account. It does not log in.
func (c *Client) Register(ctx context.Context, name, email, password string) (*models.User, error) {
	var out models.User
	body := jsonPayload(dto.RegisterRequest{Name: name, Email: email, Password: password})
	if err := c.do(ctx, request{method: http.MethodPost, path: "/auth/register", body: body}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Login exchanges credentials for an AuthContext
func (c *Client) Login(ctx context.Context, email, password string) (AuthContext, error) {
	var out dto.TokenResponse
	body := jsonPayload(dto.LoginRequest{Email: email, Password: password})
	if err := c.do(ctx, request{method: http.MethodPost, path: "/auth/login", body: body}, &out); err != nil {
		return AuthContext{}, err
	}
	auth := AuthContext{Token: out.Token, User: out.User}
	if out.ExpiresIn > 0 {
		auth.ExpiresAt = time.Now().Add(time.Duration(out.ExpiresIn) * time.Second)
	}
	return auth, nil
}

// Me returns the user the token belongs to
func (c *Client) Me(ctx context.Context, auth AuthContext) (*models.User, error) {
	var out models.User
	if err := c.do(ctx, request{method: http.MethodGet, path: "/auth/me", auth: &auth}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Users lists every account (admin)
func (c *Client) Users(ctx context.Context, auth AuthContext) ([]*models.User, error) {
	var out []*models.User
	if err := c.do(ctx, request{method: http.MethodGet, path: "/auth/users", auth: &auth}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SetRole changes a user's role (admin)
func (c *Client) SetRole(ctx context.Context, auth AuthContext, id string, role models.RoleType) (*models.User, error) {
	var out models.User
	path := "/auth/users/" + url.PathEscape(id) + "/role"
	body := jsonPayload(dto.RoleRequest{Role: role})
	if err := c.do(ctx, request{method: http.MethodPut, path: path, auth: &auth, body: body}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteUser removes an account (admin)
func (c *Client) DeleteUser(ctx context.Context, auth AuthContext, id string) error {
	return c.do(ctx, request{method: http.MethodDelete, path: "/auth/users/" + url.PathEscape(id), auth: &auth}, nil)
}

// SubmitContact sends the public contact form
func (c *Client) SubmitContact(ctx context.Context, name, email, message string) (*models.ContactMessage, error) {
	var out models.ContactMessage
	body := jsonPayload(dto.ContactRequest{Name: name, Email: email, Message: message})
	if err := c.do(ctx, request{method: http.MethodPost, path: "/contact", body: body}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Messages lists the contact inbox (admin)
func (c *Client) Messages(ctx context.Context, auth AuthContext) ([]*models.ContactMessage, error) {
	var out []*models.ContactMessage
	if err := c.do(ctx, request{method: http.MethodGet, path: "/contact", auth: &auth}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Message returns one contact message (admin)
func (c *Client) Message(ctx context.Context, auth AuthContext, id string) (*models.ContactMessage, error) {
	var out models.ContactMessage
	if err := c.do(ctx, request{method: http.MethodGet, path: "/contact/" + url.PathEscape(id), auth: &auth}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SetMessageStatus moves a contact message to status (admin)
func (c *Client) SetMessageStatus(ctx context.Context, auth AuthContext, id string, status models.MessageStatus) (*models.ContactMessage, error) {
	var out models.ContactMessage
	path := "/contact/" + url.PathEscape(id) + "/status"
	body := jsonPayload(dto.StatusRequest{Status: status})
	if err := c.do(ctx, request{method: http.MethodPut, path: path, auth: &auth, body: body}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteMessage removes a contact message (admin)
func (c *Client) DeleteMessage(ctx context.Context, auth AuthContext, id string) error {
	return c.do(ctx, request{method: http.MethodDelete, path: "/contact/" + url.PathEscape(id), auth: &auth}, nil)
}

// Health reports server and database health
func (c *Client) Health(ctx context.Context) (*dto.HealthResponse, error) {
	var out dto.HealthResponse
	if err := c.do(ctx, request{method: http.MethodGet, path: "/health"}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
