package repositories

import (
	"github.com/yigit/cyberclub/internal/app/models"
)

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository    *UserRepository
	PostRepository    *PostRepository
	EventRepository   *EventRepository
	MemberRepository  *CrudRepository[models.Member]
	ClassRepository   *CrudRepository[models.Class]
	CTFRepository     *CrudRepository[models.CTF]
	ContactRepository *CrudRepository[models.ContactMessage]
	UploadRepository  *UploadRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db DBTX) *Repositories {
	return &Repositories{
		UserRepository:    NewUserRepository(db),
		PostRepository:    NewPostRepository(db),
		EventRepository:   NewEventRepository(db),
		MemberRepository:  NewMemberRepository(db),
		ClassRepository:   NewClassRepository(db),
		CTFRepository:     NewCTFRepository(db),
		ContactRepository: NewContactRepository(db),
		UploadRepository:  NewUploadRepository(db),
	}
}
