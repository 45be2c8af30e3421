package grammar

import "github.com/ghettovoice/abnf"

// chars builds an alternation of single-byte literals.
func chars(key, set string) abnf.Operator {
	ops := make([]abnf.Operator, len(set))
	for i := range len(set) {
		ops[i] = abnf.Literal(set[i:i+1], []byte{set[i]})
	}
	return abnf.Alt(key, ops[0], ops[1:]...)
}

func byteRange(key string, lo, hi byte) abnf.Operator {
	return abnf.Range(key, []byte{lo}, []byte{hi})
}

// RFC 5234 core rules and RFC 9110 section 5.6 lexical rules.
var (
	sp     = abnf.Literal("SP", []byte{' '})
	htab   = abnf.Literal("HTAB", []byte{'\t'})
	dquote = abnf.Literal("DQUOTE", []byte{'"'})
	digit  = byteRange("DIGIT", '0', '9')
	alpha  = abnf.Alt("ALPHA", byteRange("%x41-5A", 'A', 'Z'), byteRange("%x61-7A", 'a', 'z'))
	vchar  = byteRange("VCHAR", 0x21, 0x7e)
	obsTxt = byteRange("obs-text", 0x80, 0xff)

	ows = abnf.Repeat0Inf("OWS", abnf.Alt("SP / HTAB", sp, htab))

	tchar = abnf.Alt("tchar", chars("tchar-sym", "!#$%&'*+-.^_`|~"), digit, alpha)
	token = abnf.Repeat1Inf("token", tchar)

	qdtext = abnf.Alt("qdtext",
		htab,
		sp,
		abnf.Literal("%x21", []byte{0x21}),
		byteRange("%x23-5B", 0x23, 0x5b),
		byteRange("%x5D-7E", 0x5d, 0x7e),
		obsTxt,
	)
	quotedPair = abnf.Concat("quoted-pair",
		abnf.Literal(`"\"`, []byte{'\\'}),
		abnf.Alt("quoted-pair-char", htab, sp, vchar, obsTxt),
	)
	quotedString = abnf.Concat("quoted-string",
		dquote,
		abnf.Repeat0Inf("*( qdtext / quoted-pair )", abnf.Alt("qdtext / quoted-pair", qdtext, quotedPair)),
		dquote,
	)

	// entity-tag = [ weak ] opaque-tag
	etagc     = abnf.Alt("etagc", abnf.Literal("%x21", []byte{0x21}), byteRange("%x23-7E", 0x23, 0x7e), obsTxt)
	opaqueTag = abnf.Concat("opaque-tag", dquote, abnf.Repeat0Inf("*etagc", etagc), dquote)
	entityTag = abnf.Concat("entity-tag",
		abnf.Optional("[ weak ]", abnf.Literal("weak", []byte("W/"))),
		opaqueTag,
	)

	// parameter = parameter-name [ "=" parameter-value ]
	paramName  = abnf.Repeat1Inf("param-name", tchar)
	paramValue = abnf.Alt("param-value", token, quotedString)
	param      = abnf.Concat("param",
		paramName,
		abnf.Optional(`[ "=" param-value ]`, abnf.Concat(`"=" param-value`, abnf.Literal("=", []byte{'='}), paramValue)),
	)
	semi      = abnf.Concat(`OWS ";" OWS`, ows, abnf.Literal(";", []byte{';'}), ows)
	comma     = abnf.Concat(`OWS "," OWS`, ows, abnf.Literal(",", []byte{','}), ows)
	paramList = abnf.Repeat0Inf("*( OWS \";\" OWS param )", abnf.Concat(`";" param`, semi, param))

	// list element value: a bare item, a quoted string, or an entity tag
	elemChar  = abnf.Alt("elem-char", tchar, chars("elem-sym", "/:@[]?"))
	elemValue = abnf.Alt("elem-value", entityTag, quotedString, abnf.Repeat1Inf("1*elem-char", elemChar))
	element   = abnf.Concat("element", elemValue, paramList)

	// #element with empty list elements allowed, RFC 9110 section 5.6.1.2
	elementList = abnf.Concat("element-list",
		abnf.Optional("[ element ]", element),
		abnf.Repeat0Inf(`*( "," [ element ] )`, abnf.Concat(`"," [ element ]`, comma, abnf.Optional("[ element ]", element))),
	)

	// directive = directive-name [ "=" ( token / quoted-string ) ]
	directiveName  = abnf.Repeat1Inf("directive-name", tchar)
	directiveValue = abnf.Alt("directive-value", token, quotedString)
	directive      = abnf.Concat("directive",
		directiveName,
		abnf.Optional(`[ "=" directive-value ]`, abnf.Concat(`"=" directive-value`, abnf.Literal("=", []byte{'='}), directiveValue)),
	)
	directiveGroup = abnf.Concat("directive-group",
		directive,
		abnf.Repeat0Inf(`*( ";" directive )`, abnf.Concat(`";" directive`, semi, directive)),
	)
	directiveList = abnf.Concat("directive-list",
		abnf.Optional("[ directive-group ]", directiveGroup),
		abnf.Repeat0Inf(`*( "," [ directive-group ] )`,
			abnf.Concat(`"," [ directive-group ]`, comma, abnf.Optional("[ directive-group ]", directiveGroup)),
		),
	)

	// RFC 6265 section 4.2.1
	cookieOctet = abnf.Alt("cookie-octet",
		abnf.Literal("%x21", []byte{0x21}),
		byteRange("%x23-2B", 0x23, 0x2b),
		byteRange("%x2D-3A", 0x2d, 0x3a),
		byteRange("%x3C-5B", 0x3c, 0x5b),
		byteRange("%x5D-7E", 0x5d, 0x7e),
	)
	cookieValue = abnf.Alt("cookie-value",
		abnf.Repeat0Inf("*cookie-octet", cookieOctet),
		abnf.Concat(`DQUOTE *cookie-octet DQUOTE`, dquote, abnf.Repeat0Inf("*cookie-octet", cookieOctet), dquote),
	)
	cookiePair = abnf.Concat("cookie-pair",
		abnf.Repeat1Inf("cookie-name", tchar),
		abnf.Literal("=", []byte{'='}),
		cookieValue,
	)
	cookieString = abnf.Concat("cookie-string",
		cookiePair,
		abnf.Repeat0Inf(`*( ";" cookie-pair )`, abnf.Concat(`";" cookie-pair`, semi, cookiePair)),
	)
)
