package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/charmbracelet/huh"

	"github.com/kalambet/procard/internal/card"
	"github.com/kalambet/procard/internal/picker"
	"github.com/kalambet/procard/internal/profile"
	"github.com/kalambet/procard/internal/session"
)

type editAction string

const (
	actName           editAction = "name"
	actBio            editAction = "bio"
	actPhoto          editAction = "photo"
	actAddInterest    editAction = "add-interest"
	actRemoveInterest editAction = "remove-interest"
	actSave           editAction = "save"
	actDiscard        editAction = "discard"
)

// prompter asks the user for the next edit. Returning huh.ErrUserAborted
// from Action discards the editor; from any other prompt it goes back to
// the menu.
type prompter interface {
	Action(v session.View) (editAction, error)
	Names(first, last string) (string, string, error)
	Bio(current string) (string, error)
	// Photo returns the chosen asset's URI, or "" to cancel.
	Photo(assets []picker.Asset) (string, error)
	Interest(form profile.Pending) (string, profile.Icon, error)
	// RemoveInterest returns the id to remove, or ok false to cancel.
	RemoveInterest(interests []profile.Interest) (id int, ok bool, err error)
}

type photoResult struct {
	Selection picker.Selection `json:"selection"`
	Editor    session.View     `json:"editor"`
}

type interestResult struct {
	Interest profile.Interest `json:"interest"`
	Editor   session.View     `json:"editor"`
}

type removeResult struct {
	Removed bool         `json:"removed"`
	Editor  session.View `json:"editor"`
}

// runEditor drives one editor session on the server until the user saves
// or discards.
func runEditor(ctx context.Context, c *apiClient, p prompter, out io.Writer, force bool) error {
	path := "/editor"
	if force {
		path += "?force=true"
	}

	var v session.View
	if err := c.call(ctx, http.MethodPost, path, nil, &v); err != nil {
		var apiErr *apiError
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusConflict {
			return fmt.Errorf("%s; use --force to discard it", apiErr.Message)
		}
		return err
	}
	base := "/editor/" + v.ID
	printStep("Editing profile (editor %s)", v.ID)

	view := card.New(out, card.Options{})
	for {
		fmt.Fprintln(out, view.Render(v.Draft))

		act, err := p.Action(v)
		if errors.Is(err, huh.ErrUserAborted) {
			act = actDiscard
		} else if err != nil {
			c.call(ctx, http.MethodDelete, base, nil, nil)
			return err
		}

		switch act {
		case actName:
			first, last, perr := p.Names(v.Draft.FirstName, v.Draft.LastName)
			if perr != nil {
				err = perr
				break
			}
			err = c.call(ctx, http.MethodPatch, base, map[string]string{"firstName": first, "lastName": last}, &v)

		case actBio:
			bio, perr := p.Bio(v.Draft.Bio)
			if perr != nil {
				err = perr
				break
			}
			err = c.call(ctx, http.MethodPatch, base, map[string]string{"bio": bio}, &v)

		case actPhoto:
			var assets []picker.Asset
			if err = c.call(ctx, http.MethodGet, base+"/photos", nil, &assets); err != nil {
				break
			}
			uri, perr := p.Photo(assets)
			if perr != nil {
				err = perr
				break
			}
			var res photoResult
			if err = c.call(ctx, http.MethodPost, base+"/photo", map[string]string{"uri": uri}, &res); err != nil {
				break
			}
			v = res.Editor
			switch res.Selection.Outcome {
			case picker.Picked:
				printSuccess("Photo set to %s", res.Selection.URI)
			case picker.Cancelled:
				printStep("Photo unchanged")
			}
			printAlerts(v.Alerts)

		case actAddInterest:
			if err = c.call(ctx, http.MethodPut, base+"/interest-form", map[string]any{"visible": true}, &v); err != nil {
				break
			}
			label, icon, perr := p.Interest(v.Pending)
			if perr != nil {
				err = perr
				c.call(ctx, http.MethodPut, base+"/interest-form", map[string]any{"visible": false}, &v)
				break
			}
			if err = c.call(ctx, http.MethodPut, base+"/interest-form", map[string]any{"label": label, "icon": icon}, &v); err != nil {
				break
			}
			var res interestResult
			if err = c.call(ctx, http.MethodPost, base+"/interest-form/submit", nil, &res); err != nil {
				break
			}
			v = res.Editor
			printSuccess("Added %s %s", res.Interest.Icon.Glyph(), res.Interest.Name)

		case actRemoveInterest:
			id, ok, perr := p.RemoveInterest(v.Draft.Interests)
			if perr != nil || !ok {
				err = perr
				break
			}
			var res removeResult
			if err = c.call(ctx, http.MethodDelete, base+"/interests/"+strconv.Itoa(id), nil, &res); err != nil {
				break
			}
			v = res.Editor

		case actSave:
			if err = c.call(ctx, http.MethodPost, base+"/commit", nil, &v); err == nil {
				printSuccess("Profile saved")
				return nil
			}

		case actDiscard:
			if err := c.call(ctx, http.MethodDelete, base, nil, nil); err != nil {
				return err
			}
			printWarning("Changes discarded")
			return nil

		default:
			err = fmt.Errorf("unknown action %q", act)
		}

		if err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				continue
			}
			var apiErr *apiError
			if errors.As(err, &apiErr) && apiErr.Status == http.StatusUnprocessableEntity {
				printAlerts(apiErr.Alerts)
				if err := c.call(ctx, http.MethodGet, base, nil, &v); err != nil {
					return err
				}
				continue
			}
			c.call(ctx, http.MethodDelete, base, nil, nil)
			return err
		}
	}
}

// huhPrompter asks with terminal forms.
type huhPrompter struct{}

func (huhPrompter) Action(v session.View) (editAction, error) {
	var act editAction
	err := huh.NewSelect[editAction]().
		Title("Edit profile").
		Options(
			huh.NewOption("Change name", actName),
			huh.NewOption("Change bio", actBio),
			huh.NewOption("Change photo", actPhoto),
			huh.NewOption("Add interest", actAddInterest),
			huh.NewOption("Remove interest", actRemoveInterest),
			huh.NewOption("Save", actSave),
			huh.NewOption("Discard changes", actDiscard),
		).
		Value(&act).
		Run()
	return act, err
}

func (huhPrompter) Names(first, last string) (string, string, error) {
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("First name").Value(&first),
			huh.NewInput().Title("Last name").Value(&last),
		),
	).Run()
	return first, last, err
}

func (huhPrompter) Bio(current string) (string, error) {
	bio := current
	err := huh.NewText().
		Title("Bio").
		Value(&bio).
		Run()
	return bio, err
}

func (huhPrompter) Photo(assets []picker.Asset) (string, error) {
	if len(assets) == 0 {
		printWarning("No photos in the library")
	}
	opts := make([]huh.Option[string], 0, len(assets)+1)
	for _, a := range assets {
		opts = append(opts, huh.NewOption(fmt.Sprintf("%s (%dx%d)", a.Name, a.Width, a.Height), a.URI))
	}
	opts = append(opts, huh.NewOption("Cancel", ""))

	var uri string
	err := huh.NewSelect[string]().
		Title("Choose a profile photo").
		Options(opts...).
		Value(&uri).
		Run()
	return uri, err
}

func (huhPrompter) Interest(form profile.Pending) (string, profile.Icon, error) {
	label, icon := form.Label, form.Icon
	if icon == "" {
		icon = profile.DefaultIcon
	}

	opts := make([]huh.Option[profile.Icon], len(profile.SelectableIcons))
	for i, ic := range profile.SelectableIcons {
		opts[i] = huh.NewOption(ic.Glyph()+" "+string(ic), ic)
	}

	err := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Interest").Placeholder("Enter an interest").Value(&label),
			huh.NewSelect[profile.Icon]().Title("Icon").Options(opts...).Value(&icon),
		),
	).Run()
	return label, icon, err
}

func (huhPrompter) RemoveInterest(interests []profile.Interest) (int, bool, error) {
	if len(interests) == 0 {
		printWarning("No interests to remove")
		return 0, false, nil
	}
	opts := make([]huh.Option[int], 0, len(interests)+1)
	for _, in := range interests {
		opts = append(opts, huh.NewOption(in.Icon.Glyph()+" "+in.Name, in.ID))
	}
	opts = append(opts, huh.NewOption("Cancel", -1))

	id := -1
	err := huh.NewSelect[int]().
		Title("Remove which interest?").
		Options(opts...).
		Value(&id).
		Run()
	if err != nil || id < 0 {
		return 0, false, err
	}
	return id, true, nil
}
