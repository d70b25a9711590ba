package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/campuslink/internal/client/models"
	"github.com/dmitrijs2005/campuslink/internal/client/services"
)

var getMultiline = GetMultiline

// EditProfile walks through the profile form. An empty answer keeps the
// current value. Submitting marks the profile complete, after which the guard
// moves the user into the app.
func (a *App) EditProfile(ctx context.Context) error {
	snap := a.sessions.Snapshot()
	if !snap.Authenticated() {
		return services.ErrNotAuthenticated
	}
	current := models.Profile{}
	if snap.Profile != nil {
		current = *snap.Profile
	}

	a.Navigate(ctx, userInfoLocation)

	var update models.ProfileUpdate
	fields := []struct {
		prompt  string
		current string
		dst     **string
	}{
		{"Full name", current.FullName, &update.FullName},
		{"Phone", current.Phone, &update.Phone},
		{"Nationality", current.Nationality, &update.Nationality},
		{"University", current.University, &update.University},
		{"Program", current.Program, &update.Program},
	}
	for _, f := range fields {
		v, err := a.ask(f.prompt, f.current)
		if err != nil {
			return err
		}
		if v != "" {
			*f.dst = &v
		}
	}

	year, err := a.ask("Year of study", yearString(current.YearOfStudy))
	if err != nil {
		return err
	}
	if year != "" {
		n, err := strconv.Atoi(year)
		if err != nil || n < 0 {
			return fmt.Errorf("%w: year of study must be a non-negative number", services.ErrInvalidInput)
		}
		update.YearOfStudy = &n
	}

	interests, err := a.ask("Interests (comma separated)", strings.Join(current.Interests, ", "))
	if err != nil {
		return err
	}
	if interests != "" {
		list := splitList(interests)
		update.Interests = &list
	}

	if err := a.authService.UpdateProfile(ctx, update); err != nil {
		return err
	}
	a.println("Profile saved")
	return nil
}

// ImportProfile reads a JSON profile document from the terminal and submits it.
// Gateway metadata keys in the document are ignored.
func (a *App) ImportProfile(ctx context.Context) error {
	doc, err := getMultiline(a.reader, "Paste the profile document (JSON)", a.out)
	if err != nil {
		return err
	}
	if err := a.authService.UpdateProfileDocument(ctx, []byte(doc)); err != nil {
		return err
	}
	a.println("Profile saved")
	return nil
}

// WhoAmI prints the cached identity and profile.
func (a *App) WhoAmI(ctx context.Context) error {
	snap := a.sessions.Snapshot()
	switch {
	case !snap.Initialized:
		a.println("Session check in progress")
		return nil
	case snap.Identity == nil:
		a.println("Not signed in")
		return nil
	}

	id := snap.Identity
	a.println(fmt.Sprintf("%s <%s> id=%s", id.Name, id.Email, id.ID))

	p := snap.Profile
	if p == nil {
		if snap.ProfileMissing {
			a.println("No profile yet")
		} else {
			a.println("Profile unavailable")
		}
		return nil
	}
	a.println(fmt.Sprintf("  university: %s, program: %s, year: %d", p.University, p.Program, p.YearOfStudy))
	a.println(fmt.Sprintf("  nationality: %s, phone: %s", p.Nationality, p.Phone))
	if len(p.Interests) > 0 {
		a.println("  interests:", strings.Join(p.Interests, ", "))
	}
	a.println("  profile complete:", p.ProfileComplete)
	return nil
}

// Refresh re-runs the identity check. A revoked session signs the user out.
func (a *App) Refresh(ctx context.Context) error {
	a.authService.ForceRefresh(ctx)
	if a.isAuthenticated() {
		a.println("Session is valid")
	} else {
		a.println("Not signed in")
	}
	return nil
}

func (a *App) ask(prompt, current string) (string, error) {
	if current != "" {
		prompt = fmt.Sprintf("%s [%s]", prompt, current)
	}
	return getSimpleText(a.reader, prompt, a.out)
}

func yearString(y int) string {
	if y == 0 {
		return ""
	}
	return strconv.Itoa(y)
}

func splitList(s string) []string {
	out := make([]string, 0)
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
