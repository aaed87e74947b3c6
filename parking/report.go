package parking

import "sort"

// Vehicles returns every registered vehicle in plate order, straight off the
// leaf chain of the vehicle index.
func (l *Lot) Vehicles() []*Vehicle {
	out := make([]*Vehicle, 0, l.vehicles.Len())
	it := l.vehicles.Ascend()
	for it.Next() {
		out = append(out, it.Value())
	}
	return out
}

// Spaces returns every space in id order.
func (l *Lot) Spaces() []*Space {
	out := make([]*Space, 0, l.spaces.Len())
	it := l.spaces.Ascend()
	for it.Next() {
		out = append(out, it.Value())
	}
	return out
}

// VehiclesByParkings returns vehicles sorted by parking count, busiest first.
func (l *Lot) VehiclesByParkings() []*Vehicle {
	vs := l.Vehicles()
	sort.SliceStable(vs, func(i, j int) bool { return vs[i].Parkings > vs[j].Parkings })
	return vs
}

// VehiclesByPaid returns the vehicles whose lifetime spend falls in
// [min, max], biggest spender first.
func (l *Lot) VehiclesByPaid(min, max float64) []*Vehicle {
	all := l.Vehicles()
	vs := make([]*Vehicle, 0, len(all))
	for _, v := range all {
		if v.TotalPaid >= min && v.TotalPaid <= max {
			vs = append(vs, v)
		}
	}
	sort.SliceStable(vs, func(i, j int) bool { return vs[i].TotalPaid > vs[j].TotalPaid })
	return vs
}

// SpacesByOccupancy returns spaces sorted by how often they have been used,
// most used first.
func (l *Lot) SpacesByOccupancy() []*Space {
	ss := l.Spaces()
	sort.SliceStable(ss, func(i, j int) bool { return ss[i].OccupancyCount > ss[j].OccupancyCount })
	return ss
}

// SpacesByRevenue returns spaces sorted by earnings, highest first.
func (l *Lot) SpacesByRevenue() []*Space {
	ss := l.Spaces()
	sort.SliceStable(ss, func(i, j int) bool { return ss[i].TotalRevenue > ss[j].TotalRevenue })
	return ss
}
