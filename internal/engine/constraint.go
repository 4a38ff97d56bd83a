package engine

// Admissible reports whether seating the student on the given seat would
// satisfy every relation the student is part of, against the current
// snapshot.  Relations whose partner is not yet seated impose nothing at
// this point; they are re-evaluated only when the partner's own placement
// is resolved.  A missing student fails closed.
//
// The function is pure: both the single-draw and the batch resolver call
// it and nothing else decides validity.
func (s *Snapshot) Admissible(seatID, studentID string) bool {
	if s.studentByID(studentID) == nil {
		return false
	}
	var adjacent map[string]struct{}
	for _, rel := range s.Relations {
		var partnerID string
		switch studentID {
		case rel.StudentA:
			partnerID = rel.StudentB
		case rel.StudentB:
			partnerID = rel.StudentA
		default:
			continue
		}
		partner := s.studentByID(partnerID)
		if partner == nil || !partner.Assigned {
			continue
		}
		if adjacent == nil {
			adjacent = s.AdjacentSeats(seatID)
		}
		_, nextTo := adjacent[partner.SeatID]
		switch rel.Kind {
		case RelationMustPair:
			if !nextTo {
				return false
			}
		case RelationMustSeparate:
			if nextTo {
				return false
			}
		}
	}
	return true
}
