package handler

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haneul-dev/seat-roulette/internal/engine"
	"github.com/haneul-dev/seat-roulette/internal/repository"
)

func TestBuildSeatGrid(t *testing.T) {
	seats := buildSeatGrid(7, 2, 3)
	require.Len(t, seats, 6)

	// Row-major order with canonical ids.
	want := []string{"R1C1", "R1C2", "R1C3", "R2C1", "R2C2", "R2C3"}
	for i, s := range seats {
		assert.Equal(t, want[i], s.SeatID)
		assert.Equal(t, uint64(7), s.ClassroomID)
		assert.True(t, s.IsUsable)
	}
	assert.Equal(t, uint32(2), seats[5].RowNo)
	assert.Equal(t, uint32(3), seats[5].ColNo)
}

func TestClassroomReqValidate(t *testing.T) {
	cases := []struct {
		name string
		req  classroomReq
		ok   bool
	}{
		{"valid", classroomReq{Name: "3-B", SeatRows: 5, SeatCols: 6}, true},
		{"trims name", classroomReq{Name: "  3-B  ", SeatRows: 1, SeatCols: 1}, true},
		{"empty name", classroomReq{Name: "   ", SeatRows: 5, SeatCols: 6}, false},
		{"zero rows", classroomReq{Name: "3-B", SeatRows: 0, SeatCols: 6}, false},
		{"too many cols", classroomReq{Name: "3-B", SeatRows: 5, SeatCols: maxSeatCols + 1}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			msg := tc.req.validate()
			if tc.ok {
				assert.Empty(t, msg)
			} else {
				assert.NotEmpty(t, msg)
			}
		})
	}
}

func TestDrawErrorStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{repository.ErrClassroomNotFound, http.StatusNotFound},
		{engine.ErrDrawNotRunning, http.StatusConflict},
		{engine.ErrAllAssigned, http.StatusUnprocessableEntity},
		{engine.ErrNoAvailableSeats, http.StatusUnprocessableEntity},
		{fmt.Errorf("%w: S9", engine.ErrNoTargetStudent), http.StatusUnprocessableEntity},
		{fmt.Errorf("%w: R1C1", engine.ErrManualSeatInadmissible), http.StatusConflict},
		{fmt.Errorf("%w: R1C1", engine.ErrFixedSeatConflict), http.StatusConflict},
		{fmt.Errorf("%w for student S1", engine.ErrNoAdmissibleSeat), http.StatusConflict},
		{assert.AnError, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, drawErrorStatus(tc.err), "err=%v", tc.err)
	}
}
