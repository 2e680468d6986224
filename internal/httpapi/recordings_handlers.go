package httpapi

import (
	"mime"
	"net/http"
	"strconv"
	"time"

	"callrec-dashboard/internal/recordings"
	"callrec-dashboard/internal/rbac"

	"github.com/gin-gonic/gin"
)

const defaultAudioType = "audio/mp4"

// criteria reads filter parameters: employee, start, end (YYYY-MM-DD) and q.
func (h Handlers) criteria(c *gin.Context) (recordings.Criteria, error) {
	loc := h.Recordings.Engine().Location()
	start, err := recordings.ParseDate(c.Query("start"), loc)
	if err != nil {
		return recordings.Criteria{}, err
	}
	end, err := recordings.ParseDate(c.Query("end"), loc)
	if err != nil {
		return recordings.Criteria{}, err
	}
	return recordings.Criteria{
		Employee:  c.Query("employee"),
		StartDate: start,
		EndDate:   end,
		Query:     c.Query("q"),
	}, nil
}

func refresh(c *gin.Context) bool {
	v, _ := strconv.ParseBool(c.Query("refresh"))
	return v
}

// ListRecordings returns the filtered recordings plus the employee keys
// available for the employee selector.
func (h Handlers) ListRecordings(c *gin.Context) {
	crit, err := h.criteria(c)
	if err != nil {
		writeError(c, err)
		return
	}
	items, employees := h.Recordings.Search(c.Request.Context(), crit, refresh(c))
	c.JSON(http.StatusOK, gin.H{
		"items":     items,
		"employees": employees,
		"count":     len(items),
		"groupBy":   h.Recordings.Engine().KeyMode(),
	})
}

func (h Handlers) GetRecording(c *gin.Context) {
	rec, err := h.Recordings.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

// StreamAudio proxies the audio blob. download=1 asks the browser to save it
// under the recording's file name.
func (h Handlers) StreamAudio(c *gin.Context) {
	ctx := c.Request.Context()
	if h.Streams != nil {
		u, _ := rbac.CurrentUser(ctx)
		release, err := h.Streams.Acquire(ctx, u.UID)
		if err != nil {
			writeError(c, err)
			return
		}
		defer release()
	}

	audio, err := h.Recordings.OpenAudio(ctx, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	defer audio.Body.Close()

	contentType := audio.Info.ContentType
	if contentType == "" {
		contentType = defaultAudioType
	}
	headers := map[string]string{"Cache-Control": "private, max-age=0"}
	if dl, _ := strconv.ParseBool(c.Query("download")); dl {
		name := audio.Recording.FileName
		if name == "" {
			name = audio.Recording.ID
		}
		headers["Content-Disposition"] = mime.FormatMediaType("attachment", map[string]string{"filename": name})
	}
	size := audio.Info.Size
	if size <= 0 {
		size = -1
	}
	c.DataFromReader(http.StatusOK, size, contentType, audio.Body, headers)
}

// AudioURL returns a short-lived signed URL for direct playback.
func (h Handlers) AudioURL(c *gin.Context) {
	ttl := h.PresignTTL
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	u, err := h.Recordings.PresignAudio(c.Request.Context(), c.Param("id"), ttl)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": u, "expiresAt": time.Now().Add(ttl).UTC()})
}

func (h Handlers) DeleteRecording(c *gin.Context) {
	if err := h.Recordings.Delete(c.Request.Context(), actor(c), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Stats returns summary and per-employee statistics, optionally narrowed by
// the same parameters as ListRecordings.
func (h Handlers) Stats(c *gin.Context) {
	crit, err := h.criteria(c)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.Reporting.Stats(c.Request.Context(), crit, refresh(c)))
}
