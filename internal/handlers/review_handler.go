package handlers

import (
	"io"
	"mime/multipart"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/synap5e/homehero-web/internal/domain/review"
	"github.com/synap5e/homehero-web/internal/httperr"
	"github.com/synap5e/homehero-web/internal/httpresp"
	"github.com/synap5e/homehero-web/internal/imageprep"
	ucReview "github.com/synap5e/homehero-web/internal/usecase/review"
)

type ReviewHandler struct {
	Base
	submit *ucReview.SubmitReview
}

func NewReviewHandler(base Base, submit *ucReview.SubmitReview) *ReviewHandler {
	return &ReviewHandler{Base: base, submit: submit}
}

// Create takes the multipart review form: booking_id, rating, comment and
// up to five files.
func (h *ReviewHandler) Create(c *gin.Context) {
	bookingID := strings.TrimSpace(c.PostForm("booking_id"))
	if bookingID == "" {
		h.fail(c, httperr.Invalid("booking_id", "required", "Booking is required."))
		return
	}

	rating, err := strconv.Atoi(strings.TrimSpace(c.PostForm("rating")))
	if err != nil {
		h.fail(c, httperr.Invalid("rating", "required", "Please select a rating."))
		return
	}

	photos, err := readPhotos(c)
	if err != nil {
		h.fail(c, err)
		return
	}

	ctx := c.Request.Context()
	b, err := h.client(c).GetBooking(ctx, bookingID)
	if err != nil {
		h.fail(c, err)
		return
	}

	v, err := h.viewer(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	res, err := h.submit.Execute(ctx, h.client(c), v, b, ucReview.SubmitReviewInput{
		Rating:  rating,
		Comment: c.PostForm("comment"),
		Photos:  photos,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	httpresp.Created(c, res)
}

func readPhotos(c *gin.Context) ([]ucReview.Photo, error) {
	form, err := c.MultipartForm()
	if err != nil {
		// Plain urlencoded forms carry no files.
		return nil, nil
	}
	files := form.File["files"]
	if len(files) > review.MaxImages {
		return nil, httperr.Invalid("files", "too_many", "You can upload up to 5 photos.")
	}

	photos := make([]ucReview.Photo, 0, len(files))
	for _, fh := range files {
		if fh.Size > imageprep.MaxInputBytes {
			return nil, httperr.Invalid("files", "too_large", "Each photo must be under 10 MB.")
		}
		data, err := readFile(fh)
		if err != nil {
			return nil, httperr.Invalid("files", "unreadable", "A photo could not be read.")
		}
		photos = append(photos, ucReview.Photo{Filename: fh.Filename, Data: data})
	}
	return photos, nil
}

func readFile(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(io.LimitReader(f, imageprep.MaxInputBytes+1))
}

func (h *ReviewHandler) Mine(c *gin.Context) {
	reviews, err := h.client(c).MyReviews(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	httpresp.List(c, reviews)
}
