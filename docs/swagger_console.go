package docs

// @title           QGlide Admin Console API
// @version         1.0
// @description     Local console over the QGlide backend: dashboard, rides, drivers, users and support tickets. Every /api route except login needs a stored session.

// @contact.name   QGlide Operations
// @contact.email  ops@qglide.kz

// @host      localhost:8080
// @BasePath  /
