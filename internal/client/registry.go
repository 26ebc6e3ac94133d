package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/yigit/cyberclub/internal/app/models"
	"github.com/yigit/cyberclub/internal/pkg/apperrors"
)

// Kind names an entity collection managed through the registry
type Kind string

const (
	KindPosts    Kind = "posts"
	KindEvents   Kind = "events"
	KindMembers  Kind = "members"
	KindClasses  Kind = "classes"
	KindCTFs     Kind = "ctfs"
	KindMessages Kind = "messages"
	KindUsers    Kind = "users"
)

// FieldType decides how a raw string value is converted before sending
type FieldType string

const (
	FieldText   FieldType = "text"
	FieldLong   FieldType = "longtext"
	FieldDate   FieldType = "date"
	FieldNumber FieldType = "number"
	FieldLinks  FieldType = "links"
	FieldChoice FieldType = "choice"
	FieldSecret FieldType = "secret"
)

// Field is one input of a form
type Field struct {
	Name     string
	Label    string
	Type     FieldType
	Required bool
	Options  []string
}

// FormSchema describes the create/update form of a kind. FileField is the
// multipart field a file attaches to, empty when the kind takes no upload.
type FormSchema struct {
	Fields    []Field
	FileField string
}

// Field looks up a field by name
func (s FormSchema) Field(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Payload converts raw string values into a typed payload. With create set,
// every required field must be present; a file attached under a field
// satisfies it.
func (s FormSchema) Payload(values map[string]string, file *FileUpload, create bool) (*Payload, error) {
	if file != nil {
		if s.FileField == "" {
			return nil, apperrors.NewValidationError("this kind does not accept a file")
		}
		file.Field = s.FileField
	}

	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)

	p := NewPayload(nil)
	for _, name := range names {
		f, ok := s.Field(name)
		if !ok {
			return nil, apperrors.NewFieldValidationError(name, fmt.Sprintf("unknown field %q", name))
		}
		v, err := f.convert(values[name])
		if err != nil {
			return nil, err
		}
		p.Set(name, v)
	}

	if create {
		for _, f := range s.Fields {
			if !f.Required {
				continue
			}
			if _, ok := p.Fields[f.Name]; ok {
				continue
			}
			if file != nil && f.Name == s.FileField {
				continue
			}
			return nil, apperrors.NewFieldValidationError(f.Name, f.Name+" is required")
		}
	}

	if file != nil {
		p.Attach(file)
	}
	return p, nil
}

func (f Field) convert(raw string) (any, error) {
	switch f.Type {
	case FieldNumber:
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return nil, apperrors.NewFieldValidationError(f.Name, f.Name+" must be a whole number")
		}
		return n, nil
	case FieldLinks:
		var links []models.ContentLink
		if err := json.Unmarshal([]byte(raw), &links); err != nil {
			return nil, apperrors.NewFieldValidationError(f.Name, f.Name+` must be a JSON array of {"label","url"}`)
		}
		return links, nil
	case FieldChoice:
		v := strings.ToLower(strings.TrimSpace(raw))
		if !slices.Contains(f.Options, v) {
			return nil, apperrors.NewFieldValidationError(f.Name,
				fmt.Sprintf("%s must be one of %s", f.Name, strings.Join(f.Options, ", ")))
		}
		return v, nil
	default:
		return raw, nil
	}
}

// ErrUnsupported is returned for operations a kind does not offer
var ErrUnsupported = errors.New("operation not supported for this kind")

// Entry is the operation table of one kind. Items are returned as the
// decoded entity types, e.g. *models.Post.
type Entry struct {
	Kind   Kind
	Schema FormSchema

	// AdminList is set when even listing needs an admin token
	AdminList bool

	FetchFunc  func(ctx context.Context, auth AuthContext) ([]any, error)
	GetFunc    func(ctx context.Context, auth AuthContext, id string) (any, error)
	CreateFunc func(ctx context.Context, auth AuthContext, p *Payload) (any, error)
	UpdateFunc func(ctx context.Context, auth AuthContext, id string, p *Payload) (any, error)
	DeleteFunc func(ctx context.Context, auth AuthContext, id string) error
}

// Fetch lists the kind
func (e Entry) Fetch(ctx context.Context, auth AuthContext) ([]any, error) {
	if e.FetchFunc == nil {
		return nil, ErrUnsupported
	}
	return e.FetchFunc(ctx, auth)
}

// Get returns one item
func (e Entry) Get(ctx context.Context, auth AuthContext, id string) (any, error) {
	if e.GetFunc == nil {
		return nil, ErrUnsupported
	}
	return e.GetFunc(ctx, auth, id)
}

// Create adds an item
func (e Entry) Create(ctx context.Context, auth AuthContext, p *Payload) (any, error) {
	if e.CreateFunc == nil {
		return nil, ErrUnsupported
	}
	return e.CreateFunc(ctx, auth, p)
}

// Update changes an item
func (e Entry) Update(ctx context.Context, auth AuthContext, id string, p *Payload) (any, error) {
	if e.UpdateFunc == nil {
		return nil, ErrUnsupported
	}
	return e.UpdateFunc(ctx, auth, id, p)
}

// Delete removes an item
func (e Entry) Delete(ctx context.Context, auth AuthContext, id string) error {
	if e.DeleteFunc == nil {
		return ErrUnsupported
	}
	return e.DeleteFunc(ctx, auth, id)
}

// Registry maps each kind to its operations
type Registry struct {
	entries map[Kind]Entry
}

// Lookup returns the entry for kind
func (r *Registry) Lookup(kind Kind) (Entry, error) {
	e, ok := r.entries[Kind(strings.ToLower(string(kind)))]
	if !ok {
		return Entry{}, fmt.Errorf("unknown kind %q (known: %s)", kind, strings.Join(r.kindNames(), ", "))
	}
	return e, nil
}

// Kinds returns every registered kind, sorted
func (r *Registry) Kinds() []Kind {
	kinds := make([]Kind, 0, len(r.entries))
	for k := range r.entries {
		kinds = append(kinds, k)
	}
	slices.Sort(kinds)
	return kinds
}

func (r *Registry) kindNames() []string {
	var names []string
	for _, k := range r.Kinds() {
		names = append(names, string(k))
	}
	return names
}

func contentEntry[T any](kind Kind, res Resource[T], schema FormSchema) Entry {
	return Entry{
		Kind:   kind,
		Schema: schema,
		FetchFunc: func(ctx context.Context, _ AuthContext) ([]any, error) {
			return asAny(res.List(ctx))
		},
		GetFunc: func(ctx context.Context, _ AuthContext, id string) (any, error) {
			return res.Get(ctx, id)
		},
		CreateFunc: func(ctx context.Context, auth AuthContext, p *Payload) (any, error) {
			return res.Create(ctx, auth, p)
		},
		UpdateFunc: func(ctx context.Context, auth AuthContext, id string, p *Payload) (any, error) {
			return res.Update(ctx, auth, id, p)
		},
		DeleteFunc: res.Delete,
	}
}

func asAny[T any](items []*T, err error) ([]any, error) {
	if err != nil {
		return nil, err
	}
	out := make([]any, len(items))
	for i, item := range items {
		out[i] = item
	}
	return out, nil
}

func text(name, label string, required bool) Field {
	return Field{Name: name, Label: label, Type: FieldText, Required: required}
}

func long(name, label string, required bool) Field {
	return Field{Name: name, Label: label, Type: FieldLong, Required: required}
}

// NewRegistry builds the kind table on top of c
func NewRegistry(c *Client) *Registry {
	entries := []Entry{
		contentEntry(KindPosts, c.Posts(), FormSchema{
			FileField: "image",
			Fields: []Field{
				text("title", "Title", true),
				long("content", "Content", true),
				text("image", "Image URL", false),
			},
		}),
		contentEntry(KindEvents, c.Events(), FormSchema{
			FileField: "image",
			Fields: []Field{
				text("title", "Title", true),
				long("description", "Description", true),
				{Name: "date", Label: "Date", Type: FieldDate, Required: true},
				text("location", "Location", true),
				text("image", "Image URL", false),
			},
		}),
		contentEntry(KindMembers, c.Members(), FormSchema{
			Fields: []Field{
				text("name", "Name", true),
				text("role", "Role", true),
				long("bio", "Bio", false),
				text("image", "Image URL", false),
				text("linkedin", "LinkedIn", false),
				text("github", "GitHub", false),
			},
		}),
		contentEntry(KindClasses, c.Classes(), FormSchema{
			FileField: "contentFile",
			Fields: []Field{
				text("title", "Title", true),
				long("description", "Description", true),
				text("instructor", "Instructor", false),
				{Name: "date", Label: "Date", Type: FieldDate, Required: true},
				text("time", "Time", true),
				text("location", "Location", false),
				{Name: "capacity", Label: "Capacity", Type: FieldNumber},
				text("contentFile", "Content file URL", false),
				{Name: "contentLinks", Label: "Content links", Type: FieldLinks},
			},
		}),
		contentEntry(KindCTFs, c.CTFs(), FormSchema{
			FileField: "preview",
			Fields: []Field{
				text("title", "Title", true),
				text("author", "Author", true),
				{Name: "previewType", Label: "Preview type", Type: FieldChoice,
					Options: []string{string(models.PreviewImage), string(models.PreviewVideo), string(models.PreviewLink)}},
				text("preview", "Preview URL", false),
				text("videoLink", "Video link", false),
				long("description", "Description", false),
			},
		}),
		messagesEntry(c),
		usersEntry(c),
	}

	r := &Registry{entries: make(map[Kind]Entry, len(entries))}
	for _, e := range entries {
		r.entries[e.Kind] = e
	}
	return r
}

// messagesEntry backs the contact inbox. Create is the public form, update
// only moves the status.
func messagesEntry(c *Client) Entry {
	return Entry{
		Kind:      KindMessages,
		AdminList: true,
		Schema: FormSchema{Fields: []Field{
			text("name", "Name", true),
			text("email", "Email", true),
			long("message", "Message", true),
			{Name: "status", Label: "Status", Type: FieldChoice,
				Options: []string{string(models.MessageNew), string(models.MessageRead), string(models.MessageReplied)}},
		}},
		FetchFunc: func(ctx context.Context, auth AuthContext) ([]any, error) {
			return asAny(c.Messages(ctx, auth))
		},
		GetFunc: func(ctx context.Context, auth AuthContext, id string) (any, error) {
			return c.Message(ctx, auth, id)
		},
		CreateFunc: func(ctx context.Context, _ AuthContext, p *Payload) (any, error) {
			return c.SubmitContact(ctx, p.str("name"), p.str("email"), p.str("message"))
		},
		UpdateFunc: func(ctx context.Context, auth AuthContext, id string, p *Payload) (any, error) {
			status := p.str("status")
			if status == "" {
				return nil, apperrors.NewFieldValidationError("status", "status is required")
			}
			return c.SetMessageStatus(ctx, auth, id, models.MessageStatus(status))
		},
		DeleteFunc: c.DeleteMessage,
	}
}

// usersEntry backs account administration. Create registers, update only
// changes the role.
func usersEntry(c *Client) Entry {
	return Entry{
		Kind:      KindUsers,
		AdminList: true,
		Schema: FormSchema{Fields: []Field{
			text("name", "Name", true),
			text("email", "Email", true),
			{Name: "password", Label: "Password", Type: FieldSecret, Required: true},
			{Name: "role", Label: "Role", Type: FieldChoice,
				Options: []string{string(models.RoleUser), string(models.RoleAdmin)}},
		}},
		FetchFunc: func(ctx context.Context, auth AuthContext) ([]any, error) {
			return asAny(c.Users(ctx, auth))
		},
		CreateFunc: func(ctx context.Context, _ AuthContext, p *Payload) (any, error) {
			return c.Register(ctx, p.str("name"), p.str("email"), p.str("password"))
		},
		UpdateFunc: func(ctx context.Context, auth AuthContext, id string, p *Payload) (any, error) {
			role := p.str("role")
			if role == "" {
				return nil, apperrors.NewFieldValidationError("role", "role is required")
			}
			return c.SetRole(ctx, auth, id, models.RoleType(role))
		},
		DeleteFunc: c.DeleteUser,
	}
}

func (p *Payload) str(name string) string {
	if p == nil {
		return ""
	}
	s, _ := p.Fields[name].(string)
	return s
}
