package repository

import "github.com/iliyamo/team-lineup/internal/model"

// DefaultPlayers returns the sample roster used when nothing valid is stored.
func DefaultPlayers() []model.Player {
	mk := func(id int64, last, first, license string) model.Player {
		return model.Player{
			Person: model.Person{
				ID:            id,
				LastName:      last,
				FirstName:     first,
				TeamID:        model.DefaultTeamID,
				Role:          model.RolePlayer,
				LicenseNumber: license,
				BirthDate:     "2008-08-18",
				Nationality:   model.DefaultNationality,
				Image:         model.DefaultImage,
			},
			ShirtNumber: "0",
			Category:    model.DefaultCategory,
		}
	}
	return []model.Player{
		mk(1823, "walid", "MARCUS", "106PMMW08"),
		mk(1824, "safa", "dawi", "106PMMW09"),
		mk(1825, "yassine", "MARCUS", "106PMMW10"),
	}
}

// DefaultStaff returns the sample staff list used when nothing valid is stored.
func DefaultStaff() []model.Staff {
	mk := func(id int64, last, license string) model.Staff {
		return model.Staff{Person: model.Person{
			ID:            id,
			LastName:      last,
			FirstName:     "ELALAOUI",
			TeamID:        model.DefaultTeamID,
			Role:          model.RoleCoach,
			LicenseNumber: license,
			BirthDate:     "2008-10-05",
			Nationality:   model.DefaultNationality,
			Image:         model.DefaultImage,
		}}
	}
	return []model.Staff{
		mk(2105, "yassoine", "128PLWW08"),
		mk(2106, "AHMED", "128PLWW09"),
	}
}
