package services

import (
	"github.com/rs/zerolog"
	"github.com/yigit/cyberclub/internal/app/models"
	"github.com/yigit/cyberclub/internal/app/models/dto"
	"github.com/yigit/cyberclub/internal/app/repositories"
	"github.com/yigit/cyberclub/internal/pkg/auth"
	"github.com/yigit/cyberclub/internal/pkg/email"
)

// Services holds all the service instances
type Services struct {
	Auth    *AuthService
	Posts   *PostService
	Events  *EventService
	Members *ContentService[models.Member, dto.MemberInput]
	Classes *ContentService[models.Class, dto.ClassInput]
	CTFs    *ContentService[models.CTF, dto.CTFInput]
	Contact *ContactService
}

// NewServices wires every service onto repos
func NewServices(repos *repositories.Repositories, jwtService *auth.JWTService, uploader Uploader, mailer email.EmailService, logger zerolog.Logger) *Services {
	s := &Services{
		Auth:    NewAuthService(repos.UserRepository, jwtService, auth.PasswordHasher{}, logger.With().Str("service", "auth").Logger()),
		Posts:   NewPostService(repos.PostRepository, uploader, logger),
		Events:  NewEventService(repos.EventRepository, uploader, logger),
		Members: NewContentService(repos.MemberRepository, uploader, MemberDefinition(), logger),
		Classes: NewContentService(repos.ClassRepository, uploader, ClassDefinition(), logger),
		CTFs:    NewContentService(repos.CTFRepository, uploader, CTFDefinition(), logger),
		Contact: NewContactService(repos.ContactRepository, mailer, logger),
	}

	// an upload may be referenced from any table, so cleanup asks them all
	s.Posts.setReferences(repos.UploadRepository)
	s.Events.setReferences(repos.UploadRepository)
	s.Members.setReferences(repos.UploadRepository)
	s.Classes.setReferences(repos.UploadRepository)
	s.CTFs.setReferences(repos.UploadRepository)
	return s
}
