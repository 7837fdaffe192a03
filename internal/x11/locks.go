package x11

// expandLocks returns mods combined with every subset of the lock masks, so a
// grab still fires while NumLock, CapsLock or ScrollLock is on.
func expandLocks(mods uint16, locks ...uint16) []uint16 {
	var distinct []uint16
	for _, l := range locks {
		if l == 0 || l&mods != 0 {
			continue
		}
		dup := false
		for _, d := range distinct {
			if d == l {
				dup = true
				break
			}
		}
		if !dup {
			distinct = append(distinct, l)
		}
	}

	combos := make([]uint16, 0, 1<<len(distinct))
	for subset := 0; subset < 1<<len(distinct); subset++ {
		m := mods
		for i, l := range distinct {
			if subset&(1<<i) != 0 {
				m |= l
			}
		}
		combos = append(combos, m)
	}
	return combos
}
