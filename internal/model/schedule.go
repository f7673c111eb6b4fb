package model

// OffsetRecord is one solved (frame, link, instance, replica) -> offset
// cell, the wire shape a CLI serializes the finished schedule as. Fields
// and units follow spec.md §6's output schedule contract bit-exactly:
// a nanosecond start offset, the link's own transmission time, and the
// instant transmission on that link ends.
type OffsetRecord struct {
	FrameID            int   `json:"frame_id"`
	LinkID             int   `json:"link_id"`
	Instance           int   `json:"instance"`
	Replica            int   `json:"replica"`
	OffsetNs           int64 `json:"offset_ns"`
	TransmissionTimeNs int64 `json:"transmission_time_ns"`
	EndingTimeNs       int64 `json:"ending_time_ns"`
}

// DumpSchedule flattens every assigned grid cell across every frame's
// path tree into a stable list ordered by frame, then path node in
// pre-order, then instance, then replica. Unassigned cells (a run that ended Infeasible or Error
// before every batch absorbed a model) are omitted rather than reported
// as zero, since zero is itself a legitimate offset.
func DumpSchedule(n *Network) []OffsetRecord {
	out := make([]OffsetRecord, 0)
	for _, f := range n.Frames {
		for _, node := range f.Preorder() {
			for i := 0; i < node.Grid.Instances(); i++ {
				for r := 0; r < node.Grid.Replicas(); r++ {
					if v, ok := node.Grid.Get(i, r); ok {
						out = append(out, OffsetRecord{
							FrameID: f.ID, LinkID: node.LinkID,
							Instance: i, Replica: r, OffsetNs: v,
							TransmissionTimeNs: node.TransmissionTimeNs,
							EndingTimeNs:       v + node.TransmissionTimeNs,
						})
					}
				}
			}
		}
	}
	return out
}
