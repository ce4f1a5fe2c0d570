package handles

import (
	"embed"
	"html/template"
	"io"
	"net/http"

	"huddle/chat"

	"github.com/labstack/echo/v4"
)

//go:embed templates/*.html
var templateFS embed.FS

const authURL = "/api/auth"

// Templates renders the embedded pages for echo.
type Templates struct {
	templates *template.Template
}

func NewTemplates() *Templates {
	funcs := template.FuncMap{"userColor": chat.UserColor}
	return &Templates{
		templates: template.Must(template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.html")),
	}
}

func (t *Templates) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	return t.templates.ExecuteTemplate(w, name, data)
}

type channelPage struct {
	Channel      string
	Username     string
	AuthURL      string
	UseTokenAuth bool
}

func (h *Handler) IndexPage(c echo.Context) error {
	var username string
	if s := currentSession(c); s != nil {
		username = s.Username
	}
	return c.Render(http.StatusOK, "index.html", map[string]string{"Username": username})
}

// ChannelPage renders the video and chat panels for a channel. Browsers
// without a username or channel reference are sent back to the landing page.
func (h *Handler) ChannelPage(c echo.Context) error {
	s := currentSession(c)
	if s == nil || s.Username == "" || s.ChannelRef == "" {
		return c.Redirect(http.StatusFound, "/")
	}
	return c.Render(http.StatusOK, "channel.html", channelPage{
		Channel:      channelParam(c),
		Username:     s.Username,
		AuthURL:      authURL,
		UseTokenAuth: true,
	})
}
