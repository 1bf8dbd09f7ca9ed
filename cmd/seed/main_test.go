package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
)

func TestReadRows_Latin1(t *testing.T) {
	utf8 := "item_name;item_category;units;default\narroz;alimentos;kg|bulto;1\n\nleche;lácteos;caja;0\n"
	latin, err := charmap.ISO8859_1.NewEncoder().String(utf8)
	require.NoError(t, err)

	rows, err := readRows(bytes.NewBufferString(latin), true, ";")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "lácteos", rows[1][1])

	reqs, err := catalogRequests(rows)
	require.NoError(t, err)
	assert.Equal(t, []string{"kg", "bulto"}, reqs[0].Units)
	assert.Equal(t, 1, reqs[0].DefaultUnit)
}

func TestCatalogRequests_FilaCorta(t *testing.T) {
	_, err := catalogRequests([][]string{{"arroz", "alimentos"}})
	assert.Error(t, err)
}

func TestPartyRequests(t *testing.T) {
	rows, err := readRows(strings.NewReader("name,contact\nComedor Norte, 3001234567\nHogar Sur\n"), false, ",")
	require.NoError(t, err)
	reqs := partyRequests(rows)
	require.Len(t, reqs, 2)
	assert.Equal(t, "3001234567", reqs[0].Contact)
	assert.Equal(t, "", reqs[1].Contact)
}
