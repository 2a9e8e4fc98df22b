// Copyright (c) 2026 Marquee Theater Collective <dev@marquee.nyc>
// All rights reserved. See LICENSE for details.

package compose

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"marquee/internal/models"
)

// GetEvent projects one event, or ErrNotFound.
func (c *Composer) GetEvent(ctx context.Context, id uuid.UUID, now time.Time) (map[string]any, error) {
	event, err := c.catalog.EventByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get event: %w", err)
	}
	if event == nil {
		return nil, ErrNotFound
	}
	return c.EventData(ctx, event, now)
}

// GetPerson projects one person, or ErrNotFound. Inactive people still
// resolve so old links keep working.
func (c *Composer) GetPerson(ctx context.Context, id uuid.UUID, now time.Time) (map[string]any, error) {
	person, err := c.catalog.PersonByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get person: %w", err)
	}
	if person == nil {
		return nil, ErrNotFound
	}
	return c.PersonData(ctx, person, now, true)
}

// GetHouseTeam projects one house team with its roster, or ErrNotFound.
func (c *Composer) GetHouseTeam(ctx context.Context, id uuid.UUID, now time.Time) (map[string]any, error) {
	team, err := c.catalog.HouseTeamByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get house team: %w", err)
	}
	if team == nil {
		return nil, ErrNotFound
	}
	return c.HouseTeamData(ctx, team, now, true)
}

// GetApeClass projects one class, or ErrNotFound.
func (c *Composer) GetApeClass(ctx context.Context, id uuid.UUID, now time.Time) (map[string]any, error) {
	class, err := c.catalog.ApeClassByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get class: %w", err)
	}
	if class == nil {
		return nil, ErrNotFound
	}
	return c.ApeClassData(ctx, class, now)
}

// EventData projects an event: friendly day and time strings relative to
// now, price and remaining tickets, plus the banner image and any
// attached videos.
func (c *Composer) EventData(ctx context.Context, e *models.Event, now time.Time) (map[string]any, error) {
	data := map[string]any{
		"id":             e.ID,
		"name":           e.Name,
		"bio":            e.Bio,
		"event_time":     e.EventTime(),
		"event_day":      e.EventDay(now),
		"ticket_price":   e.TicketPrice(),
		"name_with_date": e.NameWithDate(now),
	}
	if left, capped := e.TicketsLeft(); capped {
		data["tickets_left"] = left
	}
	if url, ok := c.bannerURL(ctx, e.BannerWidgetID); ok {
		data["banner_url"] = url
	}
	videos, err := c.attachedVideoData(c.widgets.VideosForEvent(ctx, e.ID))
	if err != nil {
		return nil, fmt.Errorf("event %s videos: %w", e.ID, err)
	}
	if len(videos) > 0 {
		data["videos"] = videos
	}
	return data, nil
}

// PersonData projects a person. includeTeams guards the house-team
// nesting so team rosters do not recurse back into their members' teams.
func (c *Composer) PersonData(ctx context.Context, p *models.Person, now time.Time, includeTeams bool) (map[string]any, error) {
	data := map[string]any{
		"id":       p.ID,
		"name":     p.Name(),
		"bio":      p.Bio,
		"teaches":  p.Teaches,
		"performs": p.Performs,
		"path":     p.APIPath(),
		"url":      fmt.Sprintf("/people/%s", p.ID),
	}
	if includeTeams && len(p.HouseTeamIDs) > 0 {
		teams := make([]map[string]any, 0, len(p.HouseTeamIDs))
		for _, teamID := range p.HouseTeamIDs {
			team, err := c.catalog.HouseTeamByID(ctx, teamID)
			if err != nil {
				return nil, fmt.Errorf("person %s team: %w", p.ID, err)
			}
			if team == nil {
				continue
			}
			teamData, err := c.HouseTeamData(ctx, team, now, false)
			if err != nil {
				return nil, err
			}
			teams = append(teams, teamData)
		}
		if len(teams) > 0 {
			data["house_teams"] = teams
		}
	}
	if p.HeadshotKey != "" {
		data["image_url"] = c.media.URL(p.HeadshotKey)
	}
	videos, err := c.attachedVideoData(c.widgets.VideosForPerson(ctx, p.ID))
	if err != nil {
		return nil, fmt.Errorf("person %s videos: %w", p.ID, err)
	}
	if len(videos) > 0 {
		data["videos"] = videos
	}
	return data, nil
}

// HouseTeamData projects a house team. includeMembers pulls the active
// roster; member projections skip team nesting to end the recursion.
func (c *Composer) HouseTeamData(ctx context.Context, h *models.HouseTeam, now time.Time, includeMembers bool) (map[string]any, error) {
	data := map[string]any{
		"id":        h.ID,
		"name":      h.Name,
		"path":      h.APIPath(),
		"show_time": strVal(h.ShowTime),
	}
	if includeMembers {
		members, err := c.catalog.PeopleByHouseTeam(ctx, h.ID)
		if err != nil {
			return nil, fmt.Errorf("house team %s roster: %w", h.ID, err)
		}
		performers := make([]map[string]any, 0, len(members))
		for i := range members {
			memberData, err := c.PersonData(ctx, &members[i], now, false)
			if err != nil {
				return nil, err
			}
			performers = append(performers, memberData)
		}
		data["performers"] = performers
	}
	if h.CarouselWidgetID != nil {
		carouselData, err := c.widgetDataByID(ctx, *h.CarouselWidgetID, now)
		if err != nil {
			return nil, err
		}
		if carouselData != nil {
			data["image_carousel"] = carouselData
		}
	}
	if h.LogoWidgetID != nil {
		logoData, err := c.widgetDataByID(ctx, *h.LogoWidgetID, now)
		if err != nil {
			return nil, err
		}
		if logoData != nil {
			data["logo"] = logoData
		}
	}
	videos, err := c.attachedVideoData(c.widgets.VideosForHouseTeam(ctx, h.ID))
	if err != nil {
		return nil, fmt.Errorf("house team %s videos: %w", h.ID, err)
	}
	if len(videos) > 0 {
		data["videos"] = videos
	}
	return data, nil
}

// ApeClassData projects a class, nesting the teacher's person data when
// one is assigned.
func (c *Composer) ApeClassData(ctx context.Context, cl *models.ApeClass, now time.Time) (map[string]any, error) {
	data := map[string]any{
		"id":    cl.ID,
		"name":  cl.Name,
		"bio":   cl.Bio,
		"type":  cl.ClassType,
		"price": cl.Price(),
	}
	if day := cl.StartDay(now); day != "" {
		data["start_day"] = day
	}
	if url, ok := c.bannerURL(ctx, cl.BannerWidgetID); ok {
		data["banner_url"] = url
	}
	if cl.TeacherID != nil {
		teacher, err := c.catalog.PersonByID(ctx, *cl.TeacherID)
		if err != nil {
			return nil, fmt.Errorf("class %s teacher: %w", cl.ID, err)
		}
		if teacher != nil {
			teacherData, err := c.PersonData(ctx, teacher, now, true)
			if err != nil {
				return nil, err
			}
			data["teacher"] = teacherData
		}
	}
	return data, nil
}

// widgetDataByID resolves and projects a referenced widget, or nil when
// the reference dangles.
func (c *Composer) widgetDataByID(ctx context.Context, id uuid.UUID, now time.Time) (map[string]any, error) {
	w, err := c.widgets.ResolveByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("resolve widget %s: %w", id, err)
	}
	if w == nil {
		return nil, nil
	}
	return c.WidgetData(ctx, w, now)
}

// attachedVideoData flattens video widgets attached to a catalog entity.
func (c *Composer) attachedVideoData(widgets []models.Widget, err error) ([]map[string]any, error) {
	if err != nil {
		return nil, err
	}
	videos := make([]map[string]any, 0, len(widgets))
	for i := range widgets {
		w := &widgets[i]
		video, ok := w.Variant.(*models.VideoVariant)
		if !ok {
			continue
		}
		videos = append(videos, map[string]any{
			"name":         w.Name,
			"description":  video.Description,
			"video_source": c.media.URL(video.VideoKey),
		})
	}
	return videos, nil
}
