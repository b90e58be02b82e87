package upload

import (
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/NobleNomadic/HomeServer/internal/homeserver/constants"
	"github.com/NobleNomadic/HomeServer/internal/models"
	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"
)

type Options struct {
	// Host is host:port of the upload endpoint. It is independent of the media origin.
	Host      string
	HTTPS     bool
	Timeout   time.Duration
	UserAgent string
}

// Client streams one file per call to the upload endpoint.
type Client struct {
	opts Options
}

func NewClient(opts Options) *Client {
	if opts.Host == "" {
		opts.Host = constants.DefaultUploadHost
	}
	if opts.UserAgent == "" {
		opts.UserAgent = constants.UserAgent
	}
	return &Client{opts: opts}
}

// Upload sends the file body in a single request and returns the server's
// confirmation text. The file body is closed once the request settles.
func (c *Client) Upload(file *models.SelectedFile) (string, error) {
	if file == nil {
		return "", constants.ErrNoFileSelected
	}
	defer file.Close()

	agent := fiber.AcquireAgent()

	// prepare request
	req := agent.Request()
	c.prepareUri(req, file.Name)
	req.Header.SetMethod(fiber.MethodPost)
	err := agent.Parse()
	if err != nil {
		fiber.ReleaseAgent(agent)
		return "", &constants.TransportError{Op: "upload", Err: err}
	}

	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)
	agent.SetResponse(resp)

	if c.opts.Timeout > 0 {
		agent.Timeout(c.opts.Timeout)
	}
	if c.opts.HTTPS {
		agent.InsecureSkipVerify()
	}

	slog.Debug("Start uploading", "file", file.Name, "size", file.Size, "id", file.Id)

	// send file
	status, body, errs := agent.
		BodyStream(file.Body, int(file.Size)).
		ContentType(fiber.MIMEOctetStream).
		Bytes()
	if len(errs) != 0 {
		return "", &constants.TransportError{Op: "upload", Err: errs[0]}
	}

	err = constants.ParseError(status, string(resp.Header.StatusMessage()), body)
	if err != nil {
		return "", err
	}

	slog.Debug("Upload done", "file", file.Name, "status", status, "id", file.Id)
	return string(body), nil
}

// URL returns the upload URL for a file name.
func (c *Client) URL(name string) string {
	return BuildURL(c.scheme(), c.opts.Host, name)
}

func (c *Client) prepareUri(req *fasthttp.Request, name string) {
	req.Header.SetUserAgent(c.opts.UserAgent)
	req.URI().SetScheme(c.scheme())
	req.URI().SetHost(c.opts.Host)
	req.URI().SetPath(constants.UploadPath)
	req.URI().SetQueryString(constants.UploadNameParam + "=" + EscapeName(name))
}

func (c *Client) scheme() string {
	if c.opts.HTTPS {
		return "https"
	}
	return "http"
}

func BuildURL(scheme, host, name string) string {
	return scheme + "://" + host + constants.UploadPath + "?" + constants.UploadNameParam + "=" + EscapeName(name)
}

// EscapeName percent-encodes a file name as a single query value. Spaces
// become %20 rather than '+', so the name survives strict percent decoding
// as well as form decoding.
func EscapeName(name string) string {
	escaped := url.QueryEscape(name)
	escaped = strings.ReplaceAll(escaped, "+", "%20")

	// characters left unescaped by browsers' encodeURIComponent
	r := strings.NewReplacer("%21", "!", "%27", "'", "%28", "(", "%29", ")", "%2A", "*")
	return r.Replace(escaped)
}
