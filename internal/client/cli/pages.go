package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/dealership/internal/client/auth"
	"github.com/dmitrijs2005/dealership/internal/client/guard"
	"github.com/dustin/go-humanize"
)

var errUsage = errors.New("usage")

// maxRedirects bounds guard redirect chains; the storefront table needs at most two.
const maxRedirects = 4

// show runs path through the route table and renders where it lands. The
// page is written in one piece so it cannot interleave with the prompt.
func (a *App) show(path string) {
	var b strings.Builder
	defer func() { _, _ = io.WriteString(a.out, b.String()) }()

	for i := 0; i < maxRedirects; i++ {
		d := a.routes.Decide(a.ctrl.Snapshot(), path)
		switch d.Kind {
		case guard.Loading:
			b.WriteString("Loading...\n")
			return
		case guard.Render:
			a.setLocation(path)
			fmt.Fprintf(&b, "== %s ==\n", pageTitle(path))
			return
		case guard.Redirect:
			if next := guard.ReturnTarget(d.To); next != "" {
				a.setReturn(next)
				b.WriteString("Please log in to continue.\n")
			}
			path = d.To
		}
	}
	a.setLocation(auth.PathHome)
}

func pageTitle(path string) string {
	p := path
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	segments := strings.FieldsFunc(p, func(r rune) bool { return r == '/' })
	if len(segments) == 0 {
		return "Home"
	}
	return strings.Join(segments, " / ")
}

func (a *App) Open(_ context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: open <path>", errUsage)
	}
	path := args[0]
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	a.show(path)
	return nil
}

func (a *App) Whoami(_ context.Context, _ []string) error {
	snap := a.ctrl.Snapshot()
	fmt.Fprintf(a.out, "State:    %s\n", snap.State)
	if snap.Account == nil {
		return nil
	}
	fmt.Fprintf(a.out, "Account:  %s <%s>\n", snap.Account.DisplayName(), snap.Account.Email)
	if snap.State != auth.StateAuthenticated {
		return nil
	}
	fmt.Fprintf(a.out, "Role:     %s\n", snap.Role())
	if !snap.IssuedAt.IsZero() {
		fmt.Fprintf(a.out, "Signed in %s\n", humanize.Time(snap.IssuedAt))
	}
	if !snap.ExpiresAt.IsZero() {
		fmt.Fprintf(a.out, "Token expires %s\n", humanize.Time(snap.ExpiresAt))
	}
	return nil
}

func (a *App) Device(ctx context.Context, _ []string) error {
	d, err := a.devices.Descriptor(ctx)
	if err != nil {
		return err
	}
	remembered, err := a.devices.Remembered(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Device:      %s\n", d.Name)
	fmt.Fprintf(a.out, "ID:          %s\n", d.DeviceID)
	fmt.Fprintf(a.out, "Fingerprint: %s\n", d.Fingerprint)
	switch {
	case remembered == nil:
		fmt.Fprintln(a.out, "Trusted:     no")
	case remembered.DeviceID == d.DeviceID:
		fmt.Fprintf(a.out, "Trusted:     yes, since %s\n", humanize.Time(remembered.SavedAt))
	default:
		fmt.Fprintln(a.out, "Trusted:     no (record belongs to another device)")
	}
	return nil
}
