// Package templates renders the panel's three views from embedded
// html/template files, plus the JSON payload of the info endpoint.
package templates

import (
	"embed"
	"html/template"
	"io"

	"github.com/roborakhwala/panel/internal/model"
)

//go:embed *.html
var files embed.FS

var pages = template.Must(template.ParseFS(files, "*.html"))

// LoginData feeds the login view.
type LoginData struct {
	Errors    []string
	Successes []string
}

// RegisterData feeds the registration view.
type RegisterData struct {
	Errors    []string
	Successes []string
}

// DevicesData feeds the device list view.
type DevicesData struct {
	Mobile    string
	Rows      []model.DeviceRow
	Errors    []string
	Successes []string
}

// Login writes the login page.
func Login(w io.Writer, data LoginData) error {
	return pages.ExecuteTemplate(w, "login.html", data)
}

// Register writes the registration page.
func Register(w io.Writer, data RegisterData) error {
	return pages.ExecuteTemplate(w, "register.html", data)
}

// Devices writes the device list page.
func Devices(w io.Writer, data DevicesData) error {
	return pages.ExecuteTemplate(w, "devices.html", data)
}
