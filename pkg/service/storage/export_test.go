package storage

var ObjectName = objectName
