package repositories

import (
	"context"
	"fmt"

	"github.com/GetTogetherComm/GetTogether/internal/models/domain"
	"github.com/GetTogetherComm/GetTogether/internal/models/repositories"
)

const teamColumns = `id, name, slug, city_id, latitude, longitude, tz, web_url, card_img_url, access`

// FindTeamByID loads a team with its home city hydrated.
func (r *Repository) FindTeamByID(ctx context.Context, id int64) (domain.Team, error) {
	op := "repository.FindTeamByID()"

	var repoTeam repositories.Team
	err := r.DB.GetContext(ctx, &repoTeam, `SELECT `+teamColumns+` FROM teams WHERE id = $1 LIMIT 1`, id)
	if err != nil {
		return domain.Team{}, fmt.Errorf("%s: %w", op, notFound(err))
	}

	team := teamToDomain(repoTeam)
	if team.CityID != nil {
		city, err := r.FindCityByID(ctx, *team.CityID)
		if err != nil {
			return domain.Team{}, fmt.Errorf("%s: %w", op, err)
		}
		team.City = &city
	}
	return team, nil
}

func (r *Repository) CreateTeam(ctx context.Context, team domain.Team) (domain.Team, error) {
	op := "repository.CreateTeam()"

	if team.Slug == "" {
		team.Slug = domain.Slugify(team.Name)
	}
	if team.Access == "" {
		team.Access = domain.TeamPublic
	}
	repoTeam := teamToRepo(team)

	insertQuery := `INSERT INTO teams (name, slug, city_id, latitude, longitude, tz, web_url, card_img_url, access)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`

	err := r.DB.GetContext(ctx, &team.ID, insertQuery,
		repoTeam.Name,
		repoTeam.Slug,
		repoTeam.CityID,
		repoTeam.Latitude,
		repoTeam.Longitude,
		repoTeam.TZ,
		repoTeam.WebURL,
		repoTeam.CardImgURL,
		repoTeam.Access,
	)
	if err != nil {
		return domain.Team{}, fmt.Errorf("%s: %w", op, err)
	}
	return team, nil
}

func (r *Repository) ListTeams(ctx context.Context) ([]domain.Team, error) {
	op := "repository.ListTeams()"

	var repoTeams []repositories.Team
	err := r.DB.SelectContext(ctx, &repoTeams, `SELECT `+teamColumns+` FROM teams ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	result := make([]domain.Team, len(repoTeams))
	for i, t := range repoTeams {
		team := teamToDomain(t)
		if team.CityID != nil {
			city, err := r.FindCityByID(ctx, *team.CityID)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", op, err)
			}
			team.City = &city
		}
		result[i] = team
	}
	return result, nil
}

func teamToRepo(t domain.Team) repositories.Team {
	return repositories.Team{
		ID:         t.ID,
		Name:       t.Name,
		Slug:       t.Slug,
		CityID:     nullInt(t.CityID),
		Latitude:   nullFloat(t.Latitude),
		Longitude:  nullFloat(t.Longitude),
		TZ:         t.TZ,
		WebURL:     nullString(t.WebURL),
		CardImgURL: nullString(t.CardImgURL),
		Access:     string(t.Access),
	}
}

func teamToDomain(t repositories.Team) domain.Team {
	return domain.Team{
		ID:         t.ID,
		Name:       t.Name,
		Slug:       t.Slug,
		CityID:     fromNullInt(t.CityID),
		Latitude:   fromNullFloat(t.Latitude),
		Longitude:  fromNullFloat(t.Longitude),
		TZ:         t.TZ,
		WebURL:     fromNullString(t.WebURL),
		CardImgURL: fromNullString(t.CardImgURL),
		Access:     domain.TeamAccess(t.Access),
	}
}
