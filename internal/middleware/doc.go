// Package middleware 提供了 HTTP 請求處理的中間件。
//
// 包含請求日誌、CORS，以及讀取上游身分服務所附加的使用者資訊。
// 本服務不驗證任何 token，身分資訊在進入本服務前已由外部服務驗證。
package middleware
