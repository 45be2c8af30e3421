package header

import (
	"net/mail"
	"net/url"
	"time"

	"braces.dev/errtrace"
	"golang.org/x/text/language"

	"github.com/ghettovoice/httphdr/internal/util"
	"github.com/ghettovoice/httphdr/negotiate"
)

// Negotiation fields.
var (
	Accept = builtin(MustKey("Accept", Request,
		func(_ Version, s string) ([]negotiate.Weight[MediaType], error) {
			return errtrace.Wrap2(parseWeighted(s, mediaTypeFromElement))
		},
		renderWeights[MediaType],
		validateWeights(MediaType.validate),
	))
	AcceptCharset = builtin(MustKey("Accept-Charset", Request,
		func(_ Version, s string) (negotiate.Wildcard[[]negotiate.Weight[Charset]], error) {
			return errtrace.Wrap2(parseWeightedWildcard(s, bareElement(parseLowerToken[Charset])))
		},
		renderWeightedWildcard[Charset],
		validateWeightedWildcard(validateToken[Charset]),
	))
	AcceptEncoding = builtin(MustKey("Accept-Encoding", Request,
		func(_ Version, s string) (negotiate.Wildcard[[]negotiate.Weight[Coding]], error) {
			return errtrace.Wrap2(parseWeightedWildcard(s, bareElement(parseLowerToken[Coding])))
		},
		renderWeightedWildcard[Coding],
		validateWeightedWildcard(validateToken[Coding]),
	))
	AcceptLanguage = builtin(MustKey("Accept-Language", Request,
		func(_ Version, s string) (negotiate.Wildcard[[]negotiate.Weight[LanguageRange]], error) {
			return errtrace.Wrap2(parseWeightedWildcard(s, bareElement(parseLanguageRange)))
		},
		renderWeightedWildcard[LanguageRange],
		validateWeightedWildcard(validateLanguageRange),
	))
	TE = builtin(MustKey("TE", Request, parseTE, renderWeights[Coding], validateWeights(validateTECoding)))
)

// Fields naming other fields.
var (
	Vary    = builtin(MustKey("Vary", Response, parseWildcardKeys, renderWildcardKeys, wildcardKeys(nil)))
	Trailer = builtin(MustKey("Trailer", Both, parseKeys, renderKeys, checkKeys(AllowedInTrailer)))

	AcceptCH   = builtin(MustKey("Accept-CH", Response, parseKeys, renderKeys, checkKeys(isClientHint)))
	CriticalCH = builtin(MustKey("Critical-CH", Response, parseKeys, renderKeys, checkKeys(isClientHint)))

	AccessControlAllowHeaders = builtin(MustKey("Access-Control-Allow-Headers", Response,
		parseWildcardKeys, renderWildcardKeys, wildcardKeys(capableOf(Request))))
	AccessControlExposeHeaders = builtin(MustKey("Access-Control-Expose-Headers", Response,
		parseWildcardKeys, renderWildcardKeys, wildcardKeys(capableOf(Response))))
	AccessControlRequestHeaders = builtin(MustKey("Access-Control-Request-Headers", Request,
		parseKeys, renderKeys, checkKeys(capableOf(Request))))
)

// Token list fields.
var (
	Allow = builtin(MustKey("Allow", Response,
		func(_ Version, s string) ([]Method, error) { return errtrace.Wrap2(parseList(s, parseMethod)) },
		renderList[Method],
		validateMethods,
	))
	AccessControlAllowMethods = builtin(MustKey("Access-Control-Allow-Methods", Response,
		func(_ Version, s string) (negotiate.Wildcard[[]Method], error) {
			return errtrace.Wrap2(parseWildcardList(s, parseMethod))
		},
		renderWildcardList[Method],
		validateWildcardList(validateMethods),
	))
	AccessControlRequestMethod = builtin(MustKey("Access-Control-Request-Method", Request,
		func(_ Version, s string) (Method, error) { return errtrace.Wrap2(parseMethod(util.TrimOWS(s))) },
		func(_ Version, m Method) string { return string(m) },
		validateToken[Method],
	))
	AcceptRanges = builtin(MustKey("Accept-Ranges", Response,
		func(_ Version, s string) ([]string, error) { return errtrace.Wrap2(parseList(s, parseToken)) },
		renderTokens,
		validateTokens,
	))
	ContentEncoding = builtin(MustKey("Content-Encoding", Both,
		parseCodings, renderList[Coding], validateCodings))
	TransferEncoding = builtin(MustKey("Transfer-Encoding", Both,
		parseCodings, renderList[Coding], validateTransferCodings, ConnectionSpecific()))
	ContentLanguage = builtin(MustKey("Content-Language", Both,
		func(_ Version, s string) ([]language.Tag, error) { return errtrace.Wrap2(parseList(s, parseLanguageTag)) },
		renderLanguageTags,
		validateNonEmpty[language.Tag],
	))
	Upgrade = builtin(MustKey("Upgrade", Both,
		func(_ Version, s string) ([]Protocol, error) { return errtrace.Wrap2(parseList(s, parseProtocol)) },
		renderList[Protocol],
		validateProtocols,
		ConnectionSpecific(),
	))
	ReferrerPolicy = builtin(MustKey("Referrer-Policy", Response,
		func(_ Version, s string) ([]ReferrerPolicyToken, error) {
			return errtrace.Wrap2(parseList(s, parseLowerToken[ReferrerPolicyToken]))
		},
		renderList[ReferrerPolicyToken],
		validateReferrerPolicies,
	))
	ClearSiteData = builtin(MustKey("Clear-Site-Data", Response, parseClearSiteData, renderClearSiteData, validateClearSiteData))
	Pragma        = builtin(MustKey("Pragma", Both, parseDirectiveList, renderDirectives, validatePragma))
	Via           = builtin(MustKey("Via", Both, parseVia, renderList[ViaEntry], validateVia))
)

// Conditional request fields.
var (
	ETag    = builtin(MustKey("ETag", Response, parseETag, renderETag, validateETag))
	IfMatch = builtin(MustKey("If-Match", Request,
		parseETagList, renderWildcardList[EntityTag], validateWildcardList(validateETags)))
	IfNoneMatch = builtin(MustKey("If-None-Match", Request,
		parseETagList, renderWildcardList[EntityTag], validateWildcardList(validateETags)))
	IfRange = builtin(MustKey("If-Range", Request,
		parseIfRange, func(_ Version, r RangeValidator) string { return r.String() }, validateIfRange))
)

// Date fields.
var (
	Date              = builtin(dateKey("Date", Both))
	LastModified      = builtin(dateKey("Last-Modified", Response))
	IfModifiedSince   = builtin(dateKey("If-Modified-Since", Request))
	IfUnmodifiedSince = builtin(dateKey("If-Unmodified-Since", Request))
	Expires           = builtin(MustKey("Expires", Response, parseExpires, renderExpires, nil))
	RetryAfter        = builtin(MustKey("Retry-After", Response,
		parseRetryAfter, func(_ Version, r RetryTime) string { return r.String() }, validateRetryAfter))
)

// Fields with a structured value.
var (
	CacheControl = builtin(MustKey("Cache-Control", Both, parseCacheControl, renderCacheControl, validateCacheControl))
	Connection   = builtin(MustKey("Connection", Both,
		parseConnection, renderConnection, validateConnection, ConnectionSpecific()))
	KeepAlive = builtin(MustKey("Keep-Alive", Both,
		parseKeepAlive, renderKeepAlive, validateKeepAlive, ConnectionSpecific()))
	ProxyConnection = builtin(MustKey("Proxy-Connection", Request,
		parseConnection, renderConnection, validateConnection, ConnectionSpecific()))
	ContentDisposition = builtin(MustKey("Content-Disposition", Response,
		parseContentDisposition, renderContentDisposition, validateContentDisposition))
	ContentRange = builtin(MustKey("Content-Range", Response, parseContentRange, renderContentRange, validateContentRange))
	Range        = builtin(MustKey("Range", Request, parseRange, renderRange, validateRange))
	Forwarded    = builtin(MustKey("Forwarded", Request, parseForwarded, renderForwarded, validateForwarded))
	Cookie       = builtin(MustKey("Cookie", Request, parseCookie, renderCookie, validateCookie))
	SetCookie    = builtin(MustKey("Set-Cookie", Response, parseSetCookie, renderSetCookie, validateSetCookie))

	StrictTransportSecurity = builtin(MustKey("Strict-Transport-Security", Response, parseSTS, renderSTS, validateSTS))
	NEL                     = builtin(MustKey("NEL", Response, parseNEL, renderNEL, validateNEL))
)

// Content and target fields.
var (
	ContentType = builtin(MustKey("Content-Type", Both, parseContentType, renderMediaType, validateContentType))

	Host = builtin(MustKey("Host", Request, parseHost, renderHostPort, validateHostPort))

	Origin                   = builtin(MustKey("Origin", Request, parseOrigin, renderOrigin, validateOrigin))
	AccessControlAllowOrigin = builtin(MustKey("Access-Control-Allow-Origin", Response,
		parseAllowOrigin, renderAllowOrigin, validateAllowOrigin))
	TimingAllowOrigin = builtin(MustKey("Timing-Allow-Origin", Response,
		func(_ Version, s string) (negotiate.Wildcard[[]WebOrigin], error) {
			return errtrace.Wrap2(parseWildcardList(s, ParseOrigin))
		},
		renderWildcardList[WebOrigin],
		validateWildcardList(validateOrigins),
	))

	Location        = builtin(MustKey[*url.URL]("Location", Response, parseURI, renderURI, validateURI))
	ContentLocation = builtin(MustKey[*url.URL]("Content-Location", Response, parseURI, renderURI, validatePartialURI))
	Referer         = builtin(MustKey[*url.URL]("Referer", Request, parseURI, renderURI, validateReferer))

	From = builtin(MustKey[*mail.Address]("From", Request, parseMailbox, renderMailbox, validateMailbox))
)

// Authentication fields.
var (
	Authorization      = builtin(MustKey("Authorization", Request, parseCredentials, renderCredentials, validateCredentials))
	ProxyAuthorization = builtin(MustKey("Proxy-Authorization", Request,
		parseCredentials, renderCredentials, validateCredentials))
	WWWAuthenticate   = builtin(MustKey("WWW-Authenticate", Response, parseChallenges, renderChallenges, validateChallenges))
	ProxyAuthenticate = builtin(MustKey("Proxy-Authenticate", Response,
		parseChallenges, renderChallenges, validateChallenges))
)

// Security fields.
var (
	ContentSecurityPolicy = builtin(MustKey("Content-Security-Policy", Response, parseCSP, renderCSP, validateCSP))
	XContentTypeOptions   = builtin(enumKey("X-Content-Type-Options", Response, NoSniff))
	XFrameOptions         = builtin(enumKey("X-Frame-Options", Response, FrameDeny, FrameSameOrigin))
	OriginAgentCluster    = builtin(boolKey("Origin-Agent-Cluster", Response, "?1", "?0"))

	UpgradeInsecureRequests = builtin(boolKey("Upgrade-Insecure-Requests", Request, "1", "0"))

	AccessControlAllowCredentials = builtin(boolKey("Access-Control-Allow-Credentials", Response, "true", "false"))
	AccessControlMaxAge           = builtin(durationKey("Access-Control-Max-Age", Response, time.Second, 0))
)

// Fetch metadata and client hint fields.
var (
	SecFetchSite = builtin(enumKey("Sec-Fetch-Site", Request, SiteCrossSite, SiteSameOrigin, SiteSameSite, SiteNone))
	SecFetchMode = builtin(enumKey("Sec-Fetch-Mode", Request,
		ModeCORS, ModeNavigate, ModeNoCORS, ModeSameOrigin, ModeWebSocket))
	SecFetchDest = builtin(enumKey("Sec-Fetch-Dest", Request, fetchDests...))
	SecFetchUser = builtin(boolKey("Sec-Fetch-User", Request, "?1", "?0"))

	SecCHUA         = builtin(MustKey("Sec-CH-UA", Request, parseBrands, renderBrands, validateBrands))
	SecCHUAMobile   = builtin(boolKey("Sec-CH-UA-Mobile", Request, "?1", "?0"))
	SecCHUAPlatform = builtin(MustKey("Sec-CH-UA-Platform", Request, parseSFString, renderSFString, validateSFString))

	DNT              = builtin(boolKey("DNT", Request, "1", "0"))
	SaveData         = builtin(boolKey("Save-Data", Request, "on", "off"))
	DPR              = builtin(floatKey("DPR", Request))
	Width            = builtin(uintKey("Width", Request))
	ViewportWidth    = builtin(uintKey("Viewport-Width", Request))
	DeviceMemory     = builtin(floatKey("Device-Memory", Request))
	Downlink         = builtin(floatKey("Downlink", Request))
	ECT              = builtin(enumKey("ECT", Request, ECTSlow2G, ECT2G, ECT3G, ECT4G))
	RTT              = builtin(durationKey("RTT", Request, time.Millisecond, 0))
	AcceptCHLifetime = builtin(durationKey("Accept-CH-Lifetime", Response, time.Second, 0))
)

// Other fields.
var (
	Age           = builtin(durationKey("Age", Response, time.Second, maxDeltaSeconds))
	ContentLength = builtin(uintKey("Content-Length", Both))
	MaxForwards   = builtin(uintKey("Max-Forwards", Request))
	Expect        = builtin(enumKey("Expect", Request, Continue))
	UserAgent     = builtin(MustKey("User-Agent", Request, parseProducts, renderProducts, validateProducts))
	Server        = builtin(MustKey("Server", Response, parseProducts, renderProducts, validateProducts))
)

func parseCodings(_ Version, s string) ([]Coding, error) {
	return errtrace.Wrap2(parseList(s, parseLowerToken[Coding]))
}

func parseETagList(_ Version, s string) (negotiate.Wildcard[[]EntityTag], error) {
	return errtrace.Wrap2(parseWildcardList(s, ParseEntityTag))
}

func renderDirectives(_ Version, ds []Directive) string { return joinList(ds, Directive.String) }
