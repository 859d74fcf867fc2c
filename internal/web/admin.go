package web

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/erazemk/delez/internal/backend"
	"github.com/erazemk/delez/internal/draft"
	"github.com/erazemk/delez/internal/session"
)

// maxFormBytes bounds the admin form post including uploads.
const maxFormBytes = 64 << 20

type adminPage struct {
	PageData
	Draft       *draft.Draft
	State       string
	Tab         string
	Tabs        []draft.Tab
	Types       []string
	Frequencies []string
	Invalid     map[string]bool
	Problems    []draft.Problem
}

func (s *Server) renderAdmin(w http.ResponseWriter, r *http.Request, status int, d *draft.Draft, tab string, edit func(*adminPage)) {
	page := adminPage{
		PageData:    s.page(r, "Add Property"),
		Draft:       d,
		State:       d.Encode(),
		Tab:         draft.TabByID(tab),
		Tabs:        draft.Tabs,
		Types:       draft.Types,
		Frequencies: draft.Frequencies,
		Invalid:     map[string]bool{},
	}
	if edit != nil {
		edit(&page)
	}
	s.Templates.RenderStatus(w, status, "admin_property.html", &page)
}

// AdminPropertyPage handles GET /admin/properties/new.
func (s *Server) AdminPropertyPage(w http.ResponseWriter, r *http.Request) {
	s.renderAdmin(w, r, http.StatusOK, draft.New(), r.URL.Query().Get("tab"), nil)
}

// AdminPropertySubmit handles POST /admin/properties/new. The "action"
// field selects what the post does: switch tab, edit a list, upload files
// or submit the draft.
func (s *Server) AdminPropertySubmit(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	var err error
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/") {
		err = r.ParseMultipartForm(32 << 20)
	} else {
		err = r.ParseForm()
	}
	if err != nil {
		s.errorPage(w, r, http.StatusBadRequest, "The form could not be read. Uploads may be too large.")
		return
	}

	d, err := draft.ParseForm(r.PostForm)
	if err != nil {
		slog.Warn("discarding undecodable draft", "error", err)
		s.renderAdmin(w, r, http.StatusBadRequest, draft.New(), "", func(p *adminPage) {
			p.Error = "The form state was lost. Please start again."
		})
		return
	}
	tab := r.PostForm.Get("tab")

	action, arg, _ := strings.Cut(r.PostForm.Get("action"), ":")
	index, _ := strconv.Atoi(arg)

	switch action {
	case "tab":
		tab = arg
	case "add-amenity":
		d.AddAmenity(r.PostForm.Get("newAmenity"))
	case "remove-amenity":
		d.RemoveAmenity(index)
	case "add-risk":
		d.AddRiskFactor(r.PostForm.Get("newRiskFactor"))
	case "remove-risk":
		d.RemoveRiskFactor(index)
	case "remove-image":
		d.RemoveImage(index)
	case "remove-document":
		d.RemoveDocument(index)
	case "upload":
		if err := addUploads(r.MultipartForm, d); err != nil {
			slog.Warn("rejected upload", "user", sess.UserID, "error", err)
			s.renderAdmin(w, r, http.StatusUnprocessableEntity, d, "media", func(p *adminPage) {
				p.Error = "Upload failed: " + err.Error()
			})
			return
		}
		tab = "media"
	case "submit":
		s.submitDraft(w, r, sess, d, tab)
		return
	}

	s.renderAdmin(w, r, http.StatusOK, d, tab, nil)
}

func (s *Server) submitDraft(w http.ResponseWriter, r *http.Request, sess *session.Session, d *draft.Draft, tab string) {
	res := draft.Submit(r.Context(), s.Backend, sess.Token, d)
	if res.OK {
		slog.Info("property added", "user", sess.UserID, "property", d.Name)
		s.renderAdmin(w, r, http.StatusOK, res.Draft, "", func(p *adminPage) {
			p.Success = res.Message
		})
		return
	}

	status := http.StatusBadGateway
	var ve *draft.ValidationError
	switch {
	case errors.As(res.Err, &ve):
		status = http.StatusUnprocessableEntity
	case errors.Is(res.Err, draft.ErrNoToken):
		status = http.StatusUnauthorized
	case backend.IsKind(res.Err, backend.KindUnauthorized):
		status = http.StatusUnauthorized
		res.Message = draft.MsgAuthError
	default:
		slog.Error("failed to add property", "user", sess.UserID, "error", res.Err)
	}

	s.renderAdmin(w, r, status, res.Draft, tab, func(p *adminPage) {
		p.Error = res.Message
		if ve != nil {
			p.Invalid = ve.Fields()
			p.Problems = ve.Problems
		}
	})
}

// addUploads adds every uploaded image and document to d.
func addUploads(form *multipart.Form, d *draft.Draft) error {
	if form == nil {
		return errors.New("no files")
	}
	for _, fh := range form.File["images"] {
		if err := addFile(fh, d.AddImage); err != nil {
			return fmt.Errorf("%s: %w", fh.Filename, err)
		}
	}
	for _, fh := range form.File["documents"] {
		err := addFile(fh, func(f io.Reader) error { return d.AddDocument(fh.Filename, f) })
		if err != nil {
			return fmt.Errorf("%s: %w", fh.Filename, err)
		}
	}
	return nil
}

func addFile(fh *multipart.FileHeader, add func(io.Reader) error) error {
	f, err := fh.Open()
	if err != nil {
		return err
	}
	defer f.Close()
	return add(f)
}
