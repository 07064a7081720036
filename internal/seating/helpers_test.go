package seating

import "github.com/iliyamo/gala-seating/internal/model"

func reg(id string, typ model.RegistrationType, headcount int, name string) model.Registration {
	return model.Registration{
		ID:          id,
		Type:        typ,
		Headcount:   headcount,
		ContactName: name,
		Status:      model.StatusOpen,
	}
}

func invitedBy(r model.Registration, inviter string) model.Registration {
	r.Inviter = inviter
	return r
}

func seatedAt(r model.Registration, table int, zone model.SeatZone) model.Registration {
	r.TableNo = &table
	r.SeatZone = &zone
	return r
}

func waitlisted(r model.Registration) model.Registration {
	r.Status = model.StatusWaitlist
	return r
}

// tablesByID flattens a plan into id -> table number.
func tablesByID(p Plan) map[string]int {
	out := make(map[string]int, len(p.Assignments))
	for _, a := range p.Assignments {
		if a.TableNo != nil {
			out[a.ID] = *a.TableNo
		}
	}
	return out
}

func zonesByID(p Plan) map[string]model.SeatZone {
	out := make(map[string]model.SeatZone, len(p.Assignments))
	for _, a := range p.Assignments {
		if a.SeatZone != nil {
			out[a.ID] = *a.SeatZone
		}
	}
	return out
}
