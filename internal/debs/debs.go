package deps

import (
	"context"

	"github.com/bwise1/travel_planner_api/config"
	"github.com/bwise1/travel_planner_api/internal/db"
	"github.com/bwise1/travel_planner_api/internal/grouptravel"
	"github.com/bwise1/travel_planner_api/internal/http/google"
	stadiamaps "github.com/bwise1/travel_planner_api/internal/http/stadia_maps"
	"github.com/bwise1/travel_planner_api/internal/http/valhalla"
	"github.com/bwise1/travel_planner_api/internal/model"
	"github.com/bwise1/travel_planner_api/util"
	smtp "github.com/bwise1/travel_planner_api/util/email"
	"github.com/bwise1/travel_planner_api/util/storage"
	"github.com/bwise1/travel_planner_api/util/websockets"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Geocoder resolves a free-text place into coordinates.
type Geocoder interface {
	Geocode(ctx context.Context, text string) (stadiamaps.Place, error)
}

// Router computes a road route through stops in order.
type Router interface {
	Route(ctx context.Context, stops []util.Coordinate, costing string) (valhalla.Route, error)
}

// Translator always returns a usable response; the error explains a fallback.
type Translator interface {
	Translate(ctx context.Context, req model.TranslateRequest) (model.TranslateResponse, error)
}

// GoogleAuth resolves a Google access token into a profile.
type GoogleAuth interface {
	UserInfo(ctx context.Context, accessToken string) (model.GoogleUserInfo, error)
}

type Mailer interface {
	Send(recipient string, data interface{}, templateFile string) error
}

type Dependencies struct {
	DB         *db.DB
	Logger     *zap.Logger
	Images     storage.ImageStore
	WebSocket  *websockets.Hub
	Geocoder   Geocoder
	Router     Router
	Translator Translator
	GoogleAuth GoogleAuth
	Mailer     Mailer
	Groups     *grouptravel.Service
}

// New connects to MongoDB and builds every provider client. Image storage is
// optional: when it cannot be configured uploads are refused at request time.
func New(ctx context.Context, cfg *config.Config, log *zap.Logger) (*Dependencies, error) {
	database, err := db.New(cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to database")
	}

	images, err := storage.New(ctx, cfg)
	if err != nil {
		log.Warn("image storage disabled", zap.String("provider", cfg.ImageStorage), zap.Error(err))
		images = nil
	}

	translator, err := google.NewTranslator(ctx, cfg.GoogleTranslateAPIKey)
	if err != nil {
		_ = database.Close(context.Background())
		return nil, err
	}

	hub := websockets.NewHub(log.Named("ws"), cfg.CORSOrigins)

	var router Router
	if cfg.ValhallaURL != "" {
		router = valhalla.NewClient(cfg.ValhallaURL)
	}

	return &Dependencies{
		DB:         database,
		Logger:     log,
		Images:     images,
		WebSocket:  hub,
		Geocoder:   stadiamaps.NewClient(cfg.StadiaAPIKey),
		Router:     router,
		Translator: translator,
		GoogleAuth: google.NewUserInfoClient(cfg.GoogleClientID),
		Mailer:     smtp.NewMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.SMTPFrom),
		Groups:     grouptravel.NewService(db.NewGroupStore(database), hub, log.Named("groups")),
	}, nil
}

func (d *Dependencies) Close(ctx context.Context) error {
	return d.DB.Close(ctx)
}
