package model

import (
	"encoding/json"
	"testing"
)

func TestAmountUnmarshalJSON(t *testing.T) {
	cases := []struct {
		in      string
		want    Amount
		wantErr bool
	}{
		{`{"amount":12.5}`, 12.5, false},
		{`{"amount":"12.50"}`, 12.5, false},
		{`{"amount":" 7 "}`, 7, false},
		{`{"amount":""}`, 0, false},
		{`{"amount":null}`, 0, false},
		{`{"amount":"twelve"}`, 0, true},
		{`{"amount":"NaN"}`, 0, true},
		{`{"amount":"Inf"}`, 0, true},
		{`{"amount":"-Infinity"}`, 0, true},
	}
	for _, tc := range cases {
		var req GroupExpenseRequest
		err := json.Unmarshal([]byte(tc.in), &req)
		if (err != nil) != tc.wantErr {
			t.Errorf("%s: err = %v, wantErr %v", tc.in, err, tc.wantErr)
			continue
		}
		if !tc.wantErr && req.Amount != tc.want {
			t.Errorf("%s: amount = %v, want %v", tc.in, req.Amount, tc.want)
		}
	}
}
