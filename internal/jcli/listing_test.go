package jcli

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTableLines(t *testing.T) {
	text := "group -l\r\n#Group id\r\n#g1\r\n#!g2\r\nTotal Groups: 2\r\njcli : "
	assert.Equal(t, []string{"#g1", "#!g2"}, TableLines(text))

	// header and footer only
	assert.Empty(t, TableLines("group -l\r\n#Group id\r\nTotal Groups: 0\r\njcli : "))

	// fewer than three lines is the empty sentinel
	assert.Nil(t, TableLines("group -l\r\njcli : "))
	assert.Nil(t, TableLines("jcli : "))
}

func TestSplitCols(t *testing.T) {
	lines := []string{
		"#f1   TransparentFilter   MO MT   <T>",
		"",
		"not a data row",
		"#f2 UserFilter MT <U (uid=u1)>",
	}
	got := SplitCols(lines)
	assert.Equal(t, [][]string{
		{"#f1", "TransparentFilter", "MO", "MT", "<T>"},
		{"#f2", "UserFilter", "MT", "<U", "(uid=u1)>"},
	}, got)
}

func TestKeyValues(t *testing.T) {
	text := "smppccm -s c1\r\ncid c1\r\nhost 127.0.0.1\r\nbad line here\r\nport 2775\r\njcli : "
	assert.Equal(t, map[string]string{"cid": "c1", "host": "127.0.0.1", "port": "2775"}, KeyValues(text))
}
