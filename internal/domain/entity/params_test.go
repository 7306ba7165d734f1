package entity

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParameters_Validate(t *testing.T) {
	tests := []struct {
		name    string
		params  Parameters
		wantErr bool
	}{
		{name: "lower bounds", params: Parameters{Threshold: 3, LineDensity: 1}},
		{name: "upper bounds", params: Parameters{Threshold: 190, LineDensity: 50}},
		{name: "threshold zero", params: Parameters{Threshold: 0, LineDensity: 10}, wantErr: true},
		{name: "threshold 200", params: Parameters{Threshold: 200, LineDensity: 10}, wantErr: true},
		{name: "density zero", params: Parameters{Threshold: 25, LineDensity: 0}, wantErr: true},
		{name: "density 51", params: Parameters{Threshold: 25, LineDensity: 51}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.params.Validate()
			if tt.wantErr {
				require.Error(t, err)
				require.True(t, errors.Is(err, ErrParameterOutOfRange))
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestParameters_Stride(t *testing.T) {
	require.Equal(t, 1, Parameters{LineDensity: 50}.Stride())
	require.Equal(t, 50, Parameters{LineDensity: 1}.Stride())
	require.Equal(t, 10, StrideFor(41))
}
