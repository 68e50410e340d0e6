package review

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/synap5e/homehero-web/internal/api"
	"github.com/synap5e/homehero-web/internal/audit"
	domain "github.com/synap5e/homehero-web/internal/domain/booking"
	reviewdomain "github.com/synap5e/homehero-web/internal/domain/review"
	"github.com/synap5e/homehero-web/internal/httperr"
	"github.com/synap5e/homehero-web/internal/imageprep"
	"github.com/synap5e/homehero-web/internal/inflight"
	"github.com/synap5e/homehero-web/internal/models"
)

type Client interface {
	UploadReviewImages(ctx context.Context, files []api.Upload) ([]string, error)
	CreateReview(ctx context.Context, req api.CreateReviewRequest) (string, error)
}

// Photo is a raw file from the review form.
type Photo struct {
	Filename string
	Data     []byte
}

type SubmitReviewInput struct {
	Rating  int
	Comment string
	Photos  []Photo
}

type Result struct {
	Message string   `json:"message"`
	Images  []string `json:"images"`
}

type SubmitReview struct {
	guard *inflight.Guard
	audit audit.Recorder
	log   *zap.Logger
}

func NewSubmitReview(guard *inflight.Guard, recorder audit.Recorder, log *zap.Logger) *SubmitReview {
	if recorder == nil {
		recorder = audit.Nop{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &SubmitReview{guard: guard, audit: recorder, log: log}
}

// Execute reviews a completed booking: photos are normalised and uploaded
// first, then the review is created with the returned URLs. Nothing is
// sent for a booking that is not completed.
func (uc *SubmitReview) Execute(
	ctx context.Context,
	c Client,
	v domain.Viewer,
	b *models.Booking,
	in SubmitReviewInput,
) (res *Result, err error) {
	defer func() {
		uc.audit.Dispatch(audit.Event{
			UserID:   v.UserID,
			Role:     v.Role.String(),
			Action:   "review.submit",
			Entity:   "booking",
			EntityID: b.BookingID,
			Outcome:  audit.OutcomeOf(err),
			Metadata: map[string]any{"rating": in.Rating, "photos": len(in.Photos)},
		})
	}()

	if err := domain.CanReview(v, b); err != nil {
		return nil, err
	}

	draft := reviewdomain.Draft{
		BookingID: b.BookingID,
		Rating:    in.Rating,
		Comment:   strings.TrimSpace(in.Comment),
		Images:    len(in.Photos),
	}
	if err := draft.Validate(); err != nil {
		return nil, err
	}

	uploads := make([]api.Upload, 0, len(in.Photos))
	for i, p := range in.Photos {
		img, err := imageprep.Prepare(p.Filename, p.Data)
		if err != nil {
			uc.log.Debug("review photo rejected", zap.Int("index", i), zap.Error(err))
			return nil, httperr.Invalid("files", "invalid_image", "Photos must be JPEG, PNG or WebP images under 10 MB.")
		}
		uploads = append(uploads, api.Upload{
			Filename:    img.Filename,
			ContentType: img.ContentType,
			Data:        img.Data,
		})
	}

	release, err := uc.guard.Acquire(inflight.ReviewKey(b.BookingID))
	if err != nil {
		return nil, err
	}
	defer release()

	var urls []string
	if len(uploads) > 0 {
		urls, err = c.UploadReviewImages(ctx, uploads)
		if err != nil {
			return nil, err
		}
	}
	if urls == nil {
		urls = []string{}
	}

	msg, err := c.CreateReview(ctx, api.CreateReviewRequest{
		BookingID: b.BookingID,
		Rating:    draft.Rating,
		Comment:   draft.Comment,
		Images:    urls,
	})
	if err != nil {
		return nil, err
	}
	if msg == "" {
		msg = "Review submitted"
	}
	return &Result{Message: msg, Images: urls}, nil
}
