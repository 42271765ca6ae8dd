package flexbuf

import "strconv"

// Printf appends to f using a printf subset: width, precision, left-justify
// ('-'), and verbs %c %d %ld %lu %s %u %%. 'l' is accepted as a no-op
// length modifier the way the original's lformat treated "long" on a
// platform where int and long are the same width. Unknown verbs are
// appended literally, and an unmatched trailing '%' is appended as-is;
// formatting never overruns and always leaves f in a valid state, even if
// the argument list runs short (the verb is then dropped).
func (f *Flexbuf) Printf(format string, args ...any) {
	ai := 0
	next := func() any {
		if ai >= len(args) {
			return nil
		}
		v := args[ai]
		ai++
		return v
	}

	i := 0
	for i < len(format) {
		c := format[i]
		if c != '%' {
			f.AppendByte(c)
			i++
			continue
		}
		i++
		if i >= len(format) {
			f.AppendByte('%')
			break
		}

		left := false
		width := -1
		prec := -1

		if format[i] == '-' {
			left = true
			i++
		}
		ws := i
		for i < len(format) && format[i] >= '0' && format[i] <= '9' {
			i++
		}
		if i > ws {
			width, _ = strconv.Atoi(format[ws:i])
		}
		if i < len(format) && format[i] == '.' {
			i++
			ps := i
			for i < len(format) && format[i] >= '0' && format[i] <= '9' {
				i++
			}
			prec, _ = strconv.Atoi(format[ps:i])
		}
		for i < len(format) && (format[i] == 'l' || format[i] == 'h') {
			i++
		}
		if i >= len(format) {
			break
		}
		verb := format[i]
		i++

		var s string
		switch verb {
		case '%':
			s = "%"
		case 'c':
			v := next()
			switch tv := v.(type) {
			case byte:
				s = string([]byte{tv})
			case rune:
				s = string([]rune{tv})
			case int:
				s = string([]byte{byte(tv)})
			default:
				s = ""
			}
		case 'd':
			s = strconv.FormatInt(toInt64(next()), 10)
		case 'u':
			s = strconv.FormatUint(toUint64(next()), 10)
		case 's':
			v := next()
			switch tv := v.(type) {
			case string:
				s = tv
			case []byte:
				s = string(tv)
			default:
				s = ""
			}
			if prec >= 0 && prec < len(s) {
				s = s[:prec]
			}
		default:
			s = "%" + string(verb)
		}

		if width > len(s) {
			pad := make([]byte, width-len(s))
			for j := range pad {
				pad[j] = ' '
			}
			if left {
				s = s + string(pad)
			} else {
				s = string(pad) + s
			}
		}
		f.AppendString(s)
	}
}

func toInt64(v any) int64 {
	switch t := v.(type) {
	case int:
		return int64(t)
	case int32:
		return int64(t)
	case int64:
		return t
	case uint:
		return int64(t)
	case uint64:
		return int64(t)
	default:
		return 0
	}
}

func toUint64(v any) uint64 {
	switch t := v.(type) {
	case int:
		return uint64(t)
	case uint:
		return uint64(t)
	case uint32:
		return uint64(t)
	case uint64:
		return t
	default:
		return 0
	}
}
